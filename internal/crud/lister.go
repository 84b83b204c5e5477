package crud

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/chalani/chalani/internal/backend"
)

// Pager is the part of the backend client the lister needs.
type Pager interface {
	List(ctx context.Context, path string, query url.Values) (backend.Page, error)
	ListURL(ctx context.Context, raw string) (backend.Page, error)
	SameOrigin(raw string) bool
}

// Cursor is the per-visit pagination state kept in the session.
type Cursor struct {
	Page     int    `json:"page"`
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// ListResult is one fetched page.
type ListResult struct {
	Page backend.Page
	// Number is the page actually shown, which differs from the request
	// after a fallback.
	Number   int
	Fallback bool
}

// Lister fetches pages of a collection.
type Lister struct {
	pager  Pager
	logger *slog.Logger
}

// NewLister constructs a Lister.
func NewLister(pager Pager, logger *slog.Logger) *Lister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lister{pager: pager, logger: logger}
}

// Fetch loads page of path filtered by status. When cursor describes an
// adjacent page, its stored next/previous URL is followed instead of
// rebuilding the query. A 404 on a page past the first falls back to the
// preceding page exactly once.
func (l *Lister) Fetch(ctx context.Context, path, status string, page int, cursor *Cursor) (ListResult, Cursor, error) {
	if page < 1 {
		page = 1
	}
	result, err := l.fetchPage(ctx, path, status, page, cursor)
	if err != nil && page > 1 && errors.Is(err, backend.ErrNotFound) {
		l.logger.Info("list page not found, falling back",
			slog.String("path", path), slog.Int("page", page))
		page--
		result, err = l.fetchQuery(ctx, path, status, page)
		result.Fallback = true
	}
	if err != nil {
		return ListResult{}, Cursor{}, err
	}
	result.Number = page
	next := Cursor{Page: page, Count: result.Page.Count, Next: result.Page.Next, Previous: result.Page.Previous}
	return result, next, nil
}

func (l *Lister) fetchPage(ctx context.Context, path, status string, page int, cursor *Cursor) (ListResult, error) {
	if cursor != nil && cursor.Page > 0 {
		var target string
		switch page {
		case cursor.Page + 1:
			target = cursor.Next
		case cursor.Page - 1:
			target = cursor.Previous
		}
		if target != "" && l.pager.SameOrigin(target) {
			p, err := l.pager.ListURL(ctx, target)
			return ListResult{Page: p}, err
		}
	}
	return l.fetchQuery(ctx, path, status, page)
}

func (l *Lister) fetchQuery(ctx context.Context, path, status string, page int) (ListResult, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("page", strconv.Itoa(page))
	p, err := l.pager.List(ctx, path, q)
	return ListResult{Page: p}, err
}

// FetchRange loads every record of rangePath between from and to. Range
// results are not paginated.
func (l *Lister) FetchRange(ctx context.Context, rangePath, status, from, to string) (ListResult, error) {
	q := url.Values{"start_date": {from}, "end_date": {to}}
	if status != "" {
		q.Set("status", status)
	}
	p, err := l.pager.List(ctx, rangePath, q)
	if err != nil {
		return ListResult{}, err
	}
	if p.Count < len(p.Items) {
		p.Count = len(p.Items)
	}
	return ListResult{Page: p, Number: 1}, nil
}
