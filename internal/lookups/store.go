// Package lookups caches the reference lists (branches, offices, employees,
// receivers, products) that populate form select boxes.
package lookups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/chalani/chalani/internal/backend"
)

// Option is one selectable entry.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Source lists every active record of a resource.
type Source interface {
	All(ctx context.Context, path string, query url.Values) ([]backend.Record, error)
}

// Store is the reference lookup cache backed by Redis.
type Store struct {
	client *redis.Client
	source Source
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewStore constructs a Store.
func NewStore(client *redis.Client, source Source, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, source: source, ttl: ttl, logger: logger}
}

// Options returns the cached options for resource, loading them from the
// backend on a miss. Concurrent misses share one backend call.
func (s *Store) Options(ctx context.Context, resource string) ([]Option, error) {
	if s == nil {
		return nil, errors.New("lookups: store not configured")
	}
	if s.client != nil {
		raw, err := s.client.Get(ctx, cacheKey(resource)).Bytes()
		if err == nil {
			var opts []Option
			if err := json.Unmarshal(raw, &opts); err == nil {
				return opts, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("lookup cache read", slog.String("resource", resource), slog.Any("error", err))
		}
	}
	v, err, _ := s.group.Do(resource, func() (any, error) {
		return s.Refresh(ctx, resource)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Option), nil
}

// Refresh reloads resource from the backend and rewrites the cache entry.
func (s *Store) Refresh(ctx context.Context, resource string) ([]Option, error) {
	records, err := s.source.All(ctx, "/api/"+resource+"/all-active/", nil)
	if err != nil {
		return nil, fmt.Errorf("lookups: load %s: %w", resource, err)
	}
	opts := make([]Option, 0, len(records))
	for _, rec := range records {
		opts = append(opts, Option{ID: rec.ID(), Label: Label(rec)})
	}
	sort.SliceStable(opts, func(i, j int) bool {
		return strings.ToLower(opts[i].Label) < strings.ToLower(opts[j].Label)
	})
	if s.client != nil {
		data, err := json.Marshal(opts)
		if err == nil {
			err = s.client.Set(ctx, cacheKey(resource), data, s.ttl).Err()
		}
		if err != nil {
			s.logger.Warn("lookup cache write", slog.String("resource", resource), slog.Any("error", err))
		}
	}
	return opts, nil
}

// Invalidate drops cached entries so the next read refetches.
func (s *Store) Invalidate(ctx context.Context, resources ...string) error {
	if s == nil || s.client == nil || len(resources) == 0 {
		return nil
	}
	keys := make([]string, 0, len(resources))
	for _, r := range resources {
		keys = append(keys, cacheKey(r))
	}
	return s.client.Del(ctx, keys...).Err()
}

// Label picks a display label for a record, pairing English and Nepali names
// when both exist.
func Label(rec backend.Record) string {
	var primary string
	for _, key := range []string{"name", "full_name", "title", "subject"} {
		if v := rec.String(key); v != "" {
			primary = v
			break
		}
	}
	for _, key := range []string{"name_np", "full_name_np"} {
		if np := rec.String(key); np != "" && np != primary {
			if primary == "" {
				return np
			}
			return primary + " / " + np
		}
	}
	if primary == "" {
		return fmt.Sprintf("#%d", rec.ID())
	}
	return primary
}

func cacheKey(resource string) string {
	return "chalani:lookups:" + resource
}
