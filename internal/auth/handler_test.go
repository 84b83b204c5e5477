package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/auth"
	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/validation"
	"github.com/chalani/chalani/internal/view"
	_ "github.com/chalani/chalani/testing"
)

func fakeBackend(t *testing.T) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "correct-horse" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"No active account found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access":"tok-123"}`))
		case "/api/auth/me/":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":9,"username":"gita","full_name":"Gita Rai","role":"Staff"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func newAuthHandler(t *testing.T) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine(csrfManager)
	require.NoError(t, err)
	handler := auth.NewHandler(nil, auth.NewService(fakeBackend(t)), templates, csrfManager, validation.MustNew())
	return handler, sessionManager
}

func serve(t *testing.T, handler *auth.Handler, sm *shared.SessionManager, req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()
	mount(handler).ServeHTTP(res, req)
	return res, sess
}

func mount(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginPage(t *testing.T) {
	handler, sm := newAuthHandler(t)

	res, _ := serve(t, handler, sm, httptest.NewRequest(http.MethodGet, "/login?next=/letters", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "<form")
	assert.Contains(t, res.Body.String(), `value="/letters"`)
}

func TestLoginSuccessStoresTokenAndRedirects(t *testing.T) {
	handler, sm := newAuthHandler(t)

	res, sess := serve(t, handler, sm, postForm("/login", url.Values{
		"username": {"gita"}, "password": {"correct-horse"}, "next": {"/letters"},
	}))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/letters", res.Header().Get("Location"))
	assert.Equal(t, "tok-123", sess.Token())
	assert.Equal(t, shared.RoleStaff, sess.Role())
	assert.Equal(t, "Gita Rai", sess.DisplayName())
	assert.NotEmpty(t, sess.Get(shared.CSRFSessionKey))
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sm := newAuthHandler(t)

	res, sess := serve(t, handler, sm, postForm("/login", url.Values{
		"username": {"gita"}, "password": {"wrong"},
	}))

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Invalid username or password.")
	assert.Empty(t, sess.Token())
}

func TestLoginMissingFields(t *testing.T) {
	handler, sm := newAuthHandler(t)

	res, _ := serve(t, handler, sm, postForm("/login", url.Values{"username": {" "}}))

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "This field is required.")
}

func TestLogoutClearsCredentials(t *testing.T) {
	handler, sm := newAuthHandler(t)
	req := postForm("/logout", url.Values{})
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, sess.SetToken("tok-123"))
	sess.SetLang("ne")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()

	mount(handler).ServeHTTP(res, req)

	assert.Equal(t, "/login", res.Header().Get("Location"))
	assert.Empty(t, sess.Token())
	assert.Equal(t, "ne", sess.Lang())
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/letters?page=2", auth.SafeNext("/letters?page=2"))
	assert.Empty(t, auth.SafeNext("https://evil.example"))
	assert.Empty(t, auth.SafeNext("//evil.example"))
	assert.Empty(t, auth.SafeNext("/login"))
}
