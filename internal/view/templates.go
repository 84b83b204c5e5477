package view

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
	csrf      *shared.CSRFManager
}

// NavItem is one sidebar link.
type NavItem struct {
	Key    string
	Href   string
	Active bool
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        *shared.CurrentUser
	Lang        string
	Nav         []NavItem
	Data        any

	tr i18n.Translator
}

// T translates a catalog key in the request language.
func (d TemplateData) T(key string, args ...any) string {
	return d.tr.T(key, args...)
}

// Num renders digits in the script of the request language.
func (d TemplateData) Num(v any) string {
	return d.tr.Digits(fmt.Sprint(v))
}

// Can reports whether the current user holds one of roles.
func (d TemplateData) Can(roles ...string) bool {
	if d.User == nil {
		return false
	}
	for _, role := range roles {
		if strings.EqualFold(d.User.Role, role) {
			return true
		}
	}
	return false
}

// CanEdit reports whether the user may create or modify records.
func (d TemplateData) CanEdit() bool {
	return d.Can(shared.EditorRoles()...)
}

// IsAdmin reports whether the user is an administrator.
func (d TemplateData) IsAdmin() bool {
	return d.Can(shared.AdminRoles()...)
}

// NewEngine parses templates at build-time.
func NewEngine(csrf *shared.CSRFManager) (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"field": func(rec backend.Record, path string) string {
			return rec.String(path)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"upper": strings.ToUpper,
		"rowHidden": func(csrf, status string, page int) map[string]any {
			if page < 1 {
				page = 1
			}
			return map[string]any{"CSRF": csrf, "Status": status, "Page": page}
		},
		"fieldView": func(field any, label, value, errMsg string, options any) map[string]any {
			return map[string]any{"Field": field, "Label": label, "Value": value, "Error": errMsg, "Options": options}
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
		"templates/pdf/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl, csrf: csrf}, nil
}

// Page builds the TemplateData common to every page of the request: the CSRF
// token, pending flash, language, verified user and navigation.
func (e *Engine) Page(r *http.Request, titleKey string, data any) TemplateData {
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	td := TemplateData{
		Title:       tr.T(titleKey),
		CurrentPath: r.URL.Path,
		Lang:        tr.Lang(),
		Data:        data,
		tr:          tr,
	}
	sess := shared.SessionFromContext(ctx)
	if sess != nil {
		if e != nil && e.csrf != nil {
			td.CSRFToken, _ = e.csrf.EnsureToken(ctx, sess)
		}
		td.Flash = sess.PopFlash()
	}
	if user, ok := shared.UserFromContext(ctx); ok {
		td.User = &user
		td.Nav = Navigation(user.Role, r.URL.Path)
	}
	return td
}

// Document builds TemplateData for a standalone document such as a PDF body.
// It leaves the session untouched.
func (e *Engine) Document(ctx context.Context, titleKey string, data any) TemplateData {
	tr := i18n.FromContext(ctx)
	return TemplateData{Title: tr.T(titleKey), Lang: tr.Lang(), Data: data, tr: tr}
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderStatus writes status before rendering, used for form errors.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderString executes name into a string, used for PDF bodies.
func (e *Engine) RenderString(name string, data TemplateData) (string, error) {
	if e == nil {
		return "", fmt.Errorf("template engine not initialised")
	}
	var sb strings.Builder
	if err := e.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Navigation lists the sidebar links visible to role.
func Navigation(role, currentPath string) []NavItem {
	items := []NavItem{
		{Key: "nav.home", Href: "/home"},
		{Key: "resource.letters", Href: "/letters"},
		{Key: "resource.receivers", Href: "/receivers"},
		{Key: "resource.products", Href: "/products"},
	}
	if role == shared.RoleAdmin {
		items = append(items,
			NavItem{Key: "resource.offices", Href: "/offices"},
			NavItem{Key: "resource.branches", Href: "/branches"},
			NavItem{Key: "resource.employees", Href: "/employees"},
			NavItem{Key: "nav.audit", Href: "/audit"},
		)
	}
	for i := range items {
		href := items[i].Href
		items[i].Active = currentPath == href || strings.HasPrefix(currentPath, href+"/")
	}
	return items
}
