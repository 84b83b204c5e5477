package lookups

import (
	"context"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/backend"
)

type countingSource struct {
	calls   atomic.Int32
	records []backend.Record
	lastURL string
}

func (s *countingSource) All(ctx context.Context, path string, query url.Values) ([]backend.Record, error) {
	s.calls.Add(1)
	s.lastURL = path
	return s.records, nil
}

func newStore(t *testing.T, src Source) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, src, time.Minute, nil), mr
}

func TestOptionsCachesAndSorts(t *testing.T) {
	src := &countingSource{records: []backend.Record{
		{"id": 2, "name": "Pokhara", "name_np": "पोखरा"},
		{"id": 1, "name": "Biratnagar"},
	}}
	store, mr := newStore(t, src)
	ctx := context.Background()

	opts, err := store.Options(ctx, "branches")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, Option{ID: 1, Label: "Biratnagar"}, opts[0])
	assert.Equal(t, "Pokhara / पोखरा", opts[1].Label)
	assert.Equal(t, "/api/branches/all-active/", src.lastURL)
	assert.True(t, mr.Exists("chalani:lookups:branches"))

	_, err = store.Options(ctx, "branches")
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	require.NoError(t, store.Invalidate(ctx, "branches"))
	_, err = store.Options(ctx, "branches")
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestLabelFallsBackToID(t *testing.T) {
	assert.Equal(t, "#9", Label(backend.Record{"id": 9}))
	assert.Equal(t, "Ram Thapa", Label(backend.Record{"id": 1, "full_name": "Ram Thapa"}))
}
