package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/backend"
	jobmetrics "github.com/chalani/chalani/internal/jobs"
	"github.com/chalani/chalani/internal/lookups"
)

type fakeRefresher struct {
	calls  []string
	tokens []string
	fail   map[string]error
}

func (f *fakeRefresher) Refresh(ctx context.Context, resource string) ([]lookups.Option, error) {
	f.calls = append(f.calls, resource)
	f.tokens = append(f.tokens, backend.TokenFromContext(ctx))
	if err := f.fail[resource]; err != nil {
		return nil, err
	}
	return []lookups.Option{{ID: 1, Label: resource}}, nil
}

func TestLookupsRefreshDefaultsToConfiguredResources(t *testing.T) {
	store := &fakeRefresher{}
	job := NewLookupsRefreshJob(store, []string{"offices", "products"}, "svc-token", nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewLookupsRefreshTask()
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, []string{"offices", "products"}, store.calls)
	assert.Equal(t, []string{"svc-token", "svc-token"}, store.tokens)
}

func TestLookupsRefreshHonoursPayload(t *testing.T) {
	store := &fakeRefresher{}
	job := NewLookupsRefreshJob(store, []string{"offices", "products"}, "", nil, nil)

	task, err := NewLookupsRefreshTask("employees")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []string{"employees"}, store.calls)
}

func TestLookupsRefreshContinuesPastFailure(t *testing.T) {
	down := errors.New("backend down")
	store := &fakeRefresher{fail: map[string]error{"offices": down}}
	job := NewLookupsRefreshJob(store, []string{"offices", "products"}, "", nil, nil)

	err := job.Run(context.Background(), nil)
	assert.ErrorIs(t, err, down)
	assert.Equal(t, []string{"offices", "products"}, store.calls)
}

func TestLookupsRefreshRejectsBadPayload(t *testing.T) {
	job := NewLookupsRefreshJob(&fakeRefresher{}, nil, "", nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskLookupsRefresh, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil).MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"failed":0,"paused":false}`, rr.Body.String())
}
