package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/validation"
	"github.com/chalani/chalani/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	validator   *validation.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, v *validation.Validator) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		templates:   templates,
		csrfManager: csrf,
		validator:   v,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
}

type loginPageData struct {
	Form    loginForm
	Errors  map[string]string
	General string
	Next    string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	data := loginPageData{Next: SafeNext(r.URL.Query().Get("next"))}
	if err := h.templates.Render(w, "pages/login.html", h.templates.Page(r, "login.title", data)); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	sess := shared.SessionFromContext(ctx)

	form := loginForm{
		Username: i18n.Clean(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	data := loginPageData{Form: form, Next: SafeNext(r.PostFormValue("next"))}
	data.Form.Password = ""

	if errs := h.validator.Struct(form); len(errs) > 0 {
		data.Errors = errs.Translate(tr)
		h.renderInvalid(w, r, data)
		return
	}
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.service.Login(ctx, form.Username, form.Password)
	if err == nil {
		sess.ClearCredentials()
		if err = sess.SetToken(token); err == nil {
			var user shared.CurrentUser
			user, err = h.service.Me(backend.WithToken(ctx, token))
			if err == nil {
				sess.SetProfile(user.DisplayName(), user.Role)
				sess.SetUser(strconv.FormatInt(user.ID, 10))
				if _, rerr := h.csrfManager.RotateToken(ctx, sess); rerr != nil {
					h.logger.Warn("rotate csrf token", slog.Any("error", rerr))
				}
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: tr.T("flash.welcome", user.DisplayName())})
				target := data.Next
				if target == "" {
					target = "/home"
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
		}
		sess.ClearCredentials()
	}

	if errors.Is(err, shared.ErrInvalidCredentials) || errors.Is(err, backend.ErrUnauthorized) {
		data.General = tr.T("error.login")
	} else {
		h.logger.Warn("login failed", slog.Any("error", err))
		data.General = tr.T("error.backend")
	}
	h.renderInvalid(w, r, data)
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, data loginPageData) {
	if err := h.templates.RenderStatus(w, http.StatusBadRequest, "pages/login.html", h.templates.Page(r, "login.title", data)); err != nil {
		h.logger.Error("render login invalid", slog.Any("error", err))
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		sess.ClearCredentials()
		if _, err := h.csrfManager.RotateToken(r.Context(), sess); err != nil {
			h.logger.Warn("rotate csrf token", slog.Any("error", err))
		}
		sess.AddFlash(shared.FlashMessage{Kind: "info", Message: i18n.FromContext(r.Context()).T("flash.logged_out")})
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SafeNext accepts only local absolute paths as post-login targets.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if strings.HasPrefix(next, "/login") {
		return ""
	}
	return next
}
