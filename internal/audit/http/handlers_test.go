package audithttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/audit"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/view"
)

type stubTimelineService struct {
	enabled     bool
	result      audit.Result
	exportRows  []audit.TimelineRow
	lastFilters audit.TimelineFilters
}

func (s *stubTimelineService) Enabled() bool { return s.enabled }

func (s *stubTimelineService) Timeline(ctx context.Context, filters audit.TimelineFilters) (audit.Result, error) {
	s.lastFilters = filters
	return s.result, nil
}

func (s *stubTimelineService) Export(ctx context.Context, filters audit.TimelineFilters) ([]audit.TimelineRow, error) {
	s.lastFilters = filters
	return s.exportRows, nil
}

func newRouter(t *testing.T, service *stubTimelineService) http.Handler {
	t.Helper()
	templates, err := view.NewEngine(nil)
	require.NoError(t, err)
	h := NewHandler(nil, service, templates)
	h.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	r := chi.NewRouter()
	r.Route("/audit", h.MountRoutes)
	return r
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := shared.ContextWithUser(req.Context(), shared.CurrentUser{Username: "admin", Role: shared.RoleAdmin})
	ctx = i18n.WithTranslator(ctx, i18n.For(i18n.English))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req.WithContext(ctx))
	return res
}

func TestTimelineDefaultsToLastWeek(t *testing.T) {
	service := &stubTimelineService{enabled: true, result: audit.Result{
		Rows:   []audit.TimelineRow{{At: time.Date(2024, 5, 9, 8, 0, 0, 0, time.UTC), Actor: "sita", Action: "create", Resource: "letters", RecordID: "12"}},
		Paging: audit.PagingInfo{Page: 1, HasNext: true, NextPage: 2},
	}}

	res := get(newRouter(t, service), "/audit")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), service.lastFilters.From)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), service.lastFilters.To)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("tr.audit-row").Length())
	href, ok := doc.Find(`a[rel="next"]`).Attr("href")
	require.True(t, ok)
	assert.Contains(t, href, "page=2")
}

func TestTimelineRejectsInvertedRange(t *testing.T) {
	service := &stubTimelineService{enabled: true}

	res := get(newRouter(t, service), "/audit?from=2024-05-09&to=2024-05-01")

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "The start date must not be after the end date.")
	assert.True(t, service.lastFilters.From.IsZero())
}

func TestTimelineDisabled(t *testing.T) {
	res := get(newRouter(t, &stubTimelineService{}), "/audit")

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "The audit trail is not configured.")
}

func TestExportCSV(t *testing.T) {
	service := &stubTimelineService{enabled: true, exportRows: []audit.TimelineRow{
		{At: time.Date(2024, 5, 9, 8, 0, 0, 0, time.UTC), Actor: "sita", Action: "export", Resource: "letters"},
	}}

	res := get(newRouter(t, service), "/audit/export.csv?from="+url.QueryEscape("२०२४-०५-०१")+"&to=2024-05-09&resource=letters")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "text/csv; charset=utf-8", res.Header().Get("Content-Type"))
	assert.Contains(t, res.Header().Get("Content-Disposition"), "audit_2024-05-10.csv")
	assert.Equal(t, "letters", service.lastFilters.Resource)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), service.lastFilters.From)
	assert.Contains(t, res.Body.String(), "sita,,export,letters")
}
