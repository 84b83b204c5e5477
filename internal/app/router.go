package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	audithttp "github.com/chalani/chalani/internal/audit/http"
	"github.com/chalani/chalani/internal/auth"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/dashboard"
	"github.com/chalani/chalani/internal/letters"
	"github.com/chalani/chalani/internal/observability"
	"github.com/chalani/chalani/internal/platform/httpx"
	"github.com/chalani/chalani/internal/rbac"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/jobs"
	"github.com/chalani/chalani/report"
	"github.com/chalani/chalani/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Gate           *auth.Gate
	RBAC           rbac.Middleware
	AuthHandler    *auth.Handler
	Resources      []*crud.Handler
	LetterPDF      *letters.PDFHandler
	Dashboard      *dashboard.Handler
	AuditHandler   *audithttp.Handler
	ReportHandler  *report.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the route tree. Health, metrics and static assets sit
// outside the session stack; every page behind the auth gate is further
// wrapped by its role guard.
func NewRouter(params RouterParams) http.Handler {
	root := chi.NewRouter()

	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		root.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		root.Handle("/static/*", staticCacheHandler(fileServer))
	}

	root.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, rbac.HomePath, http.StatusSeeOther)
		})
		r.Get("/lang/{code}", switchLanguage)
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(params.Gate.Require)

			if params.Dashboard != nil {
				r.Method(http.MethodGet, rbac.HomePath, params.Dashboard)
			}
			for _, h := range params.Resources {
				h := h
				r.Route(h.Resource().BasePath(), func(r chi.Router) {
					h.MountRoutes(r)
					if h.Resource().Name == "letters" && params.LetterPDF != nil {
						params.LetterPDF.MountRoutes(r)
					}
				})
			}
			if params.AuditHandler != nil {
				r.With(params.RBAC.RequireAdmin()).Route("/audit", params.AuditHandler.MountRoutes)
			}
			r.Group(func(r chi.Router) {
				r.Use(params.RBAC.RequireAdmin())
				if params.ReportHandler != nil {
					r.Route("/report", params.ReportHandler.MountRoutes)
				}
				if params.JobHandler != nil {
					r.Route("/jobs", params.JobHandler.MountRoutes)
				}
			})
		})
	})

	return root
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
