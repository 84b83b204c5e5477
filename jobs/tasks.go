package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/chalani/chalani/internal/backend"
	jobmetrics "github.com/chalani/chalani/internal/jobs"
	"github.com/chalani/chalani/internal/lookups"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLookupsRefresh reloads the cached select-box options.
	TaskLookupsRefresh = "lookups:refresh"
)

// LookupsRefreshPayload names the lookups to reload. An empty list reloads
// every known lookup.
type LookupsRefreshPayload struct {
	Resources []string `json:"resources,omitempty"`
}

// NewLookupsRefreshTask constructs an Asynq task.
func NewLookupsRefreshTask(resources ...string) (*asynq.Task, error) {
	data, err := json.Marshal(LookupsRefreshPayload{Resources: resources})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLookupsRefresh, data), nil
}

// Refresher reloads one lookup into the cache.
type Refresher interface {
	Refresh(ctx context.Context, resource string) ([]lookups.Option, error)
}

// LookupsRefreshJob keeps the lookup cache warm so form pages rarely wait on
// the backend.
type LookupsRefreshJob struct {
	store     Refresher
	resources []string
	token     string
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
}

// NewLookupsRefreshJob constructs the job. token is the service bearer token
// sent to the backend; resources is the default set to refresh.
func NewLookupsRefreshJob(store Refresher, resources []string, token string, logger *slog.Logger, metrics *jobmetrics.Metrics) *LookupsRefreshJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &LookupsRefreshJob{store: store, resources: resources, token: token, logger: logger, metrics: metrics}
}

// Handle processes TaskLookupsRefresh tasks. Every resource is attempted;
// the first failure is returned so Asynq retries the task.
func (j *LookupsRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LookupsRefreshPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
	}
	tracker := j.metrics.Track(TaskLookupsRefresh)
	return tracker.End(j.Run(ctx, payload.Resources))
}

// Run refreshes resources, or the default set when none are given.
func (j *LookupsRefreshJob) Run(ctx context.Context, resources []string) error {
	if len(resources) == 0 {
		resources = j.resources
	}
	if j.token != "" {
		ctx = backend.WithToken(ctx, j.token)
	}
	var firstErr error
	for _, resource := range resources {
		opts, err := j.store.Refresh(ctx, resource)
		if err != nil {
			j.logger.Warn("lookup refresh failed", slog.String("resource", resource), slog.Any("error", err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		j.metrics.SetLookupOptions(resource, len(opts))
		j.logger.Debug("lookup refreshed", slog.String("resource", resource), slog.Int("options", len(opts)))
	}
	return firstErr
}
