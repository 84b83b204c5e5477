package audit

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	rows       []TimelineRow
	lastOffset int
	lastLimit  int
}

func (s *stubRepo) Window(ctx context.Context, filters TimelineFilters, offset, limit int) ([]TimelineRow, error) {
	s.lastOffset, s.lastLimit = offset, limit
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	if offset > len(s.rows) {
		return nil, nil
	}
	return s.rows[offset:end], nil
}

func (s *stubRepo) All(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	return s.rows, nil
}

func rows(n int) []TimelineRow {
	out := make([]TimelineRow, n)
	for i := range out {
		out[i] = TimelineRow{At: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Actor: "admin", Action: "create", Resource: "letters"}
	}
	return out
}

func TestTimelinePaging(t *testing.T) {
	repo := &stubRepo{rows: rows(3)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.True(t, result.Paging.HasNext)
	assert.Equal(t, 2, result.Paging.NextPage)
	assert.Equal(t, 3, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	result, err = svc.Timeline(context.Background(), TimelineFilters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.False(t, result.Paging.HasNext)
	assert.Equal(t, 1, result.Paging.PrevPage)
	assert.Equal(t, 2, repo.lastOffset)
}

func TestTimelineClampsPageSize(t *testing.T) {
	repo := &stubRepo{}
	_, err := NewService(repo).Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 51, repo.lastLimit)
}

func TestDisabledService(t *testing.T) {
	svc := NewService(nil)
	assert.False(t, svc.Enabled())
	_, err := svc.Timeline(context.Background(), TimelineFilters{})
	assert.True(t, errors.Is(err, ErrDisabled))
	_, err = svc.Export(context.Background(), TimelineFilters{})
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestSelectTimelineFilters(t *testing.T) {
	sql, args, err := selectTimeline(TimelineFilters{
		From:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		Actor:    "sita",
		Resource: "letters",
	}).Limit(21).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM admin_actions")
	assert.Contains(t, sql, "occurred_at >= $1")
	assert.Contains(t, sql, "occurred_at < $2")
	assert.Contains(t, sql, "actor ILIKE $3")
	assert.Contains(t, sql, "resource = $4")
	assert.NotContains(t, sql, "action =")
	assert.Contains(t, sql, "ORDER BY occurred_at DESC")
	require.Len(t, args, 4)
	assert.Equal(t, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), args[1])
	assert.Equal(t, "%sita%", args[2])
}

func TestWriteCSV(t *testing.T) {
	data, err := WriteCSV([]TimelineRow{{
		At: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Actor: "admin", Role: "admin",
		Action: "export", Resource: "letters", Meta: `{"format":"pdf"}`,
	}})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2024-05-01T10:00:00Z,admin,admin,export,letters,,"{""format"":""pdf""}"`, lines[1])
}

func TestMigrationsEmbedded(t *testing.T) {
	data, err := fs.ReadFile(Migrations(), "00001_admin_actions.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS admin_actions")
}
