package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/observability"
	"github.com/chalani/chalani/internal/shared"
	_ "github.com/chalani/chalani/testing"
)

type testApp struct {
	handler  http.Handler
	redis    *redis.Client
	cfg      *Config
	apiCalls *atomic.Int32
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	calls := &atomic.Int32{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/auth/me/" {
			switch r.Header.Get("Authorization") {
			case "Bearer tok-viewer":
				_, _ = w.Write([]byte(`{"id":2,"username":"hari","role":"viewer"}`))
			case "Bearer tok-staff":
				_, _ = w.Write([]byte(`{"id":3,"username":"sita","role":"staff"}`))
			default:
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Invalid token"}`))
			}
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"count":0,"next":null,"previous":null}`))
	}))
	t.Cleanup(api.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := &Config{
		AppEnv:            "test",
		AppRequestTimeout: 5 * time.Second,
		AppRateLimit:      1000,
		BackendURL:        api.URL,
		BackendTimeout:    time.Second,
		BackendPageSize:   10,
		SessionSecret:     "session-secret",
		SessionTTL:        time.Hour,
		SessionCookie:     "chalani_session",
		CSRFSecret:        "csrf-secret",
		LookupTTL:         time.Minute,
		DefaultLang:       "en",
		GotenbergURL:      "http://127.0.0.1:0",
	}
	require.NoError(t, cfg.Validate())

	handler, err := NewHandler(cfg, nil, Infrastructure{Redis: client, Metrics: observability.NewMetrics()})
	require.NoError(t, err)
	return &testApp{handler: handler, redis: client, cfg: cfg, apiCalls: calls}
}

// login stores token in a fresh session and returns its cookie.
func (a *testApp) login(t *testing.T, token string) *http.Cookie {
	t.Helper()
	sm := shared.NewSessionManager(a.redis, a.cfg.SessionCookie, a.cfg.SessionSecret, time.Hour, false)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, sess.SetToken(token))
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rr, httptest.NewRequest(http.MethodGet, "/", nil), sess))
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestProtectedPathWithoutTokenRedirectsWithoutBackendCall(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/letters", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fletters", rr.Header().Get("Location"))
	assert.Zero(t, a.apiCalls.Load())
}

func TestRootRedirectsHome(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/home", rr.Header().Get("Location"))
}

func TestInvalidTokenIsClearedAndRedirected(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/letters", a.login(t, "tok-revoked"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/login"))
	assert.Equal(t, int32(1), a.apiCalls.Load())
}

func TestViewerOnAdminPathRedirectsHome(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "tok-viewer")

	for _, path := range []string{"/branches", "/offices", "/employees", "/audit/"} {
		rr := a.get(path, cookie)
		assert.Equal(t, http.StatusSeeOther, rr.Code, path)
		assert.Equal(t, "/home", rr.Header().Get("Location"), path)
	}
}

func TestViewerCannotOpenCreateForm(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "tok-viewer")

	assert.Equal(t, http.StatusOK, a.get("/letters", cookie).Code)
	rr := a.get("/letters/new", cookie)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/home", rr.Header().Get("Location"))
}

func TestStaffSeesLetterForm(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/letters/new", a.login(t, "tok-staff"))
	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(`[name="subject"]`).Length())
	assert.NotZero(t, doc.Find(`input[name="csrf_token"]`).Length())
	assert.Equal(t, 1, doc.Find("tr[data-item]").Length())
}

func TestLanguageSwitchPersistsInSession(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "tok-staff")

	req := httptest.NewRequest(http.MethodGet, "/lang/ne", nil)
	req.Header.Set("Referer", "http://example.com/receivers?page=2")
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/receivers?page=2", rr.Header().Get("Location"))

	page := a.get("/home", cookie)
	require.Equal(t, http.StatusOK, page.Code)
	doc, err := goquery.NewDocumentFromReader(page.Body)
	require.NoError(t, err)
	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "ne", lang)
}

func TestLanguageSwitchIgnoresForeignReferer(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/lang/en", nil)
	req.Header.Set("Referer", "https://evil.example/phish")
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	assert.Equal(t, "/home", rr.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, a.get("/lang/fr", nil).Code)
}

func TestUnsafeMethodWithoutCSRFIsForbidden(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStaticAssetsAreCached(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/static/js/app.js", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
}

func TestRowMenuAnchorsToRow(t *testing.T) {
	a := newTestApp(t)
	rr := a.get("/static/js/app.js", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	script := rr.Body.String()
	assert.Contains(t, script, `toggle.closest("tr")`)
	assert.Contains(t, script, "rowRect.bottom")
	assert.Contains(t, script, "toggleRect.right")
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	a := newTestApp(t)
	a.get("/letters", nil)
	rr := a.get("/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chalani_http_requests_total")
}
