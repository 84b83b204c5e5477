package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const table = "admin_actions"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo reads admin_actions from Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo constructs a Repo.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Window returns up to limit rows after offset, newest first.
func (r *Repo) Window(ctx context.Context, filters TimelineFilters, offset, limit int) ([]TimelineRow, error) {
	query := selectTimeline(filters).Offset(uint64(offset)).Limit(uint64(limit))
	return r.query(ctx, query)
}

// All returns every row matching filters, newest first.
func (r *Repo) All(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	return r.query(ctx, selectTimeline(filters))
}

func (r *Repo) query(ctx context.Context, builder sq.SelectBuilder) ([]TimelineRow, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("audit: build query: %w", err)
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query timeline: %w", err)
	}
	defer rows.Close()
	var out []TimelineRow
	for rows.Next() {
		var row TimelineRow
		if err := rows.Scan(&row.At, &row.Actor, &row.Role, &row.Action, &row.Resource, &row.RecordID, &row.Meta); err != nil {
			return nil, fmt.Errorf("audit: scan timeline: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// selectTimeline builds the filtered timeline query. The upper bound is
// exclusive of the day after To so a whole day is included.
func selectTimeline(filters TimelineFilters) sq.SelectBuilder {
	q := psql.Select("occurred_at", "actor", "role", "action", "resource", "record_id", "meta::text").
		From(table).
		OrderBy("occurred_at DESC", "id DESC")
	if !filters.From.IsZero() {
		q = q.Where(sq.GtOrEq{"occurred_at": filters.From})
	}
	if !filters.To.IsZero() {
		q = q.Where(sq.Lt{"occurred_at": filters.To.Add(24 * time.Hour)})
	}
	if actor := strings.TrimSpace(filters.Actor); actor != "" {
		q = q.Where(sq.ILike{"actor": "%" + actor + "%"})
	}
	if resource := strings.TrimSpace(filters.Resource); resource != "" {
		q = q.Where(sq.Eq{"resource": resource})
	}
	if action := strings.TrimSpace(filters.Action); action != "" {
		q = q.Where(sq.Eq{"action": action})
	}
	return q
}
