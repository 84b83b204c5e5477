package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chalani/chalani/internal/shared"
)

func serveAs(role string, mw func(http.Handler) http.Handler) (*httptest.ResponseRecorder, bool) {
	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodGet, "/branches", nil)
	if role != "" {
		req = req.WithContext(shared.ContextWithUser(req.Context(), shared.CurrentUser{ID: 1, Role: role}))
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res, called
}

func TestRequireAdmin(t *testing.T) {
	m := Middleware{}
	tests := []struct {
		role     string
		allowed  bool
		location string
	}{
		{role: shared.RoleAdmin, allowed: true},
		{role: shared.RoleStaff, location: HomePath},
		{role: shared.RoleViewer, location: HomePath},
		{role: "", location: "/login"},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			res, called := serveAs(tc.role, m.RequireAdmin())
			assert.Equal(t, tc.allowed, called)
			if !tc.allowed {
				assert.Equal(t, http.StatusSeeOther, res.Code)
				assert.Equal(t, tc.location, res.Header().Get("Location"))
			}
		})
	}
}

func TestRequireEditorAdmitsStaff(t *testing.T) {
	_, called := serveAs(shared.RoleStaff, Middleware{}.RequireEditor())
	assert.True(t, called)
	_, called = serveAs(shared.RoleViewer, Middleware{}.RequireEditor())
	assert.False(t, called)
}

func TestHasRoleIgnoresCase(t *testing.T) {
	assert.True(t, HasRole("Admin", []string{"admin"}))
	assert.False(t, HasRole("viewer", []string{"admin", "staff"}))
}
