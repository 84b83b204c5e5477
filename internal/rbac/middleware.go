// Package rbac gates routes on the role reported by the backend.
package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chalani/chalani/internal/shared"
)

// HomePath is where users land when a route is outside their role.
const HomePath = "/home"

// Middleware wires role checks for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny admits the request when the verified user holds one of roles.
// Users lacking the role are redirected home rather than shown an error.
func (m Middleware) RequireAny(roles ...string) func(http.Handler) http.Handler {
	allowed := normalizeRoles(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			user, ok := shared.UserFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if HasRole(user.Role, allowed) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Info("rbac redirect", slog.String("role", user.Role), slog.String("path", r.URL.Path))
			}
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
		})
	}
}

// RequireAdmin is RequireAny for administrators.
func (m Middleware) RequireAdmin() func(http.Handler) http.Handler {
	return m.RequireAny(shared.AdminRoles()...)
}

// RequireEditor is RequireAny for roles that may modify records.
func (m Middleware) RequireEditor() func(http.Handler) http.Handler {
	return m.RequireAny(shared.EditorRoles()...)
}

// HasRole reports whether role is in allowed.
func HasRole(role string, allowed []string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, a := range allowed {
		if strings.ToLower(a) == role {
			return true
		}
	}
	return false
}

func normalizeRoles(roles []string) []string {
	unique := make(map[string]struct{}, len(roles))
	normalized := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(strings.ToLower(r))
		if r == "" {
			continue
		}
		if _, ok := unique[r]; ok {
			continue
		}
		unique[r] = struct{}{}
		normalized = append(normalized, r)
	}
	return normalized
}
