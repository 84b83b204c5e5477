// Package audit reads the admin action trail written by shared.AuditLogger
// and owns its schema migrations.
package audit

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no database is configured.
var ErrDisabled = errors.New("audit: trail not configured")

// Repository provides timeline rows.
type Repository interface {
	Window(ctx context.Context, filters TimelineFilters, offset, limit int) ([]TimelineRow, error)
	All(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error)
}

// Result wraps one timeline page.
type Result struct {
	Rows   []TimelineRow
	Paging PagingInfo
}

// Service coordinates timeline reads.
type Service struct {
	repo Repository
}

// NewService creates a timeline service. A nil repo yields a disabled
// service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enabled reports whether a repository is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.repo != nil
}

// Timeline returns one page of actions. One extra row is fetched to learn
// whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if !s.Enabled() {
		return Result{}, ErrDisabled
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	rows, err := s.repo.Window(ctx, filters, (page-1)*pageSize, pageSize+1)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}

// Export returns every action matching filters.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	return s.repo.All(ctx, filters)
}
