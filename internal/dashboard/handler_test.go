package dashboard

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/view"
)

func serve(t *testing.T, api http.HandlerFunc, lang string) *goquery.Document {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	templates, err := view.NewEngine(nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	ctx := shared.ContextWithUser(req.Context(), shared.CurrentUser{Username: "ram", Role: shared.RoleViewer})
	ctx = i18n.WithTranslator(ctx, i18n.For(lang))
	res := httptest.NewRecorder()
	NewHandler(nil, client, templates).ServeHTTP(res, req.WithContext(ctx))
	require.Equal(t, http.StatusOK, res.Code)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body.String()))
	require.NoError(t, err)
	return doc
}

func recentJSON(n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(`{"id":%d,"subject":"Letter %d","dispatch_number":"%d","receiver":{"name":"Ward %d"}}`, i, i, i, i))
	}
	return `{"data":[` + strings.Join(items, ",") + `],"count":` + fmt.Sprint(n) + `}`
}

func TestHomeShowsSummaryAndRecentDrafts(t *testing.T) {
	var summaryCalls, listCalls atomic.Int32
	doc := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case summaryPath:
			summaryCalls.Add(1)
			_, _ = w.Write([]byte(`{"data":{"total_letters":42,"draft_letters":7,"pending_review":3}}`))
		case lettersPath:
			listCalls.Add(1)
			assert.Equal(t, "draft", r.URL.Query().Get("status"))
			_, _ = w.Write([]byte(recentJSON(8)))
		}
	}, i18n.English)

	assert.Equal(t, int32(1), summaryCalls.Load())
	assert.Equal(t, int32(1), listCalls.Load())
	assert.Equal(t, "42", doc.Find(`.stat[data-key="total_letters"] .stat-value`).Text())
	assert.Equal(t, "Letters", doc.Find(`.stat[data-key="total_letters"] .stat-label`).Text())
	assert.Equal(t, "Pending Review", doc.Find(`.stat[data-key="pending_review"] .stat-label`).Text())
	assert.Equal(t, recentLimit, doc.Find("#recent tbody tr[data-id]").Length())
}

func TestHomeSurvivesSummaryFailure(t *testing.T) {
	doc := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == summaryPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(recentJSON(2)))
	}, i18n.English)

	assert.Contains(t, doc.Find("#summary").Text(), "Summary unavailable.")
	assert.Equal(t, 2, doc.Find("#recent tbody tr[data-id]").Length())
}

func TestHomeUsesDevanagariDigits(t *testing.T) {
	doc := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == summaryPath {
			_, _ = w.Write([]byte(`{"total_letters":42}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"count":0}`))
	}, i18n.Nepali)

	assert.Equal(t, "४२", doc.Find(`.stat[data-key="total_letters"] .stat-value`).Text())
	assert.Equal(t, "पत्रहरू", doc.Find(`.stat[data-key="total_letters"] .stat-label`).Text())
}

func TestStatsFlattensOneLevel(t *testing.T) {
	stats := Stats(map[string]any{
		"letters": map[string]any{"draft": 2, "deep": map[string]any{"x": 1}},
		"name":    "ignored list",
		"items":   []any{1, 2},
	})
	keys := make([]string, 0, len(stats))
	for _, s := range stats {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"letters_draft", "name"}, keys)
}

func TestHomeRendersWhenBothHalvesFail(t *testing.T) {
	doc := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, i18n.English)

	assert.Contains(t, doc.Find("#summary").Text(), "Summary unavailable.")
	assert.Contains(t, doc.Find("#recent").Text(), "Could not load records.")
	assert.Zero(t, doc.Find("#recent tbody tr[data-id]").Length())
}

func TestRecentFailureKeepsSummary(t *testing.T) {
	doc := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == lettersPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"total_letters":5}`))
	}, i18n.English)

	assert.Equal(t, "5", doc.Find(`.stat[data-key="total_letters"] .stat-value`).Text())
	assert.Contains(t, doc.Find("#recent").Text(), "Could not load records.")
}
