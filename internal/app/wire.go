package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chalani/chalani/internal/audit"
	audithttp "github.com/chalani/chalani/internal/audit/http"
	"github.com/chalani/chalani/internal/auth"
	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/dashboard"
	"github.com/chalani/chalani/internal/letters"
	"github.com/chalani/chalani/internal/lookups"
	"github.com/chalani/chalani/internal/masterdata"
	"github.com/chalani/chalani/internal/observability"
	"github.com/chalani/chalani/internal/rbac"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/validation"
	"github.com/chalani/chalani/internal/view"
	"github.com/chalani/chalani/jobs"
	"github.com/chalani/chalani/report"
)

// Infrastructure carries the long-lived connections opened by main. Pool
// and Inspector may be nil.
type Infrastructure struct {
	Redis     *redis.Client
	Pool      *pgxpool.Pool
	Inspector *asynq.Inspector
	Metrics   *observability.Metrics
	// HTTPClient overrides the client used for backend calls.
	HTTPClient *http.Client
}

// NewBackendClient builds the REST backend client from configuration.
func NewBackendClient(cfg *Config, logger *slog.Logger, infra Infrastructure) (*backend.Client, error) {
	opts := backend.Options{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.BackendTimeout,
		RPS:        cfg.BackendRPS,
		HTTPClient: infra.HTTPClient,
		Logger:     logger,
	}
	if infra.Metrics != nil {
		opts.Observer = infra.Metrics
	}
	return backend.NewClient(opts)
}

// NewHandler wires every page handler and returns the root router.
func NewHandler(cfg *Config, logger *slog.Logger, infra Infrastructure) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := NewBackendClient(cfg, logger, infra)
	if err != nil {
		return nil, err
	}

	sessionManager := shared.NewSessionManager(infra.Redis, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	templates, err := view.NewEngine(csrfManager)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	validator := validation.MustNew()
	letters.RegisterRules(validator)

	rbacMiddleware := rbac.Middleware{Logger: logger}
	deps := crud.Deps{
		Logger:    logger,
		Backend:   client,
		Templates: templates,
		Lookups:   lookups.NewStore(infra.Redis, client, cfg.LookupTTL, logger),
		Validator: validator,
		Auditor:   shared.NewAuditLogger(infra.Pool),
		RBAC:      rbacMiddleware,
		PageSize:  cfg.BackendPageSize,
	}

	resources := append([]*crud.Resource{letters.Resource()}, masterdata.Resources()...)
	handlers := make([]*crud.Handler, 0, len(resources))
	for _, res := range resources {
		handlers = append(handlers, crud.NewHandler(res, deps))
	}

	var auditRepo audit.Repository
	if infra.Pool != nil {
		auditRepo = audit.NewRepo(infra.Pool)
	}

	authService := auth.NewService(client)
	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)

	return NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Gate:           auth.NewGate(authService, logger),
		RBAC:           rbacMiddleware,
		AuthHandler:    auth.NewHandler(logger, authService, templates, csrfManager, validator),
		Resources:      handlers,
		LetterPDF:      letters.NewPDFHandler(deps, pdfClient),
		Dashboard:      dashboard.NewHandler(logger, client, templates),
		AuditHandler:   audithttp.NewHandler(logger, audit.NewService(auditRepo), templates),
		ReportHandler:  report.NewHandler(pdfClient, logger),
		JobHandler:     jobs.NewHandler(infra.Inspector, logger),
		Metrics:        infra.Metrics,
	}), nil
}
