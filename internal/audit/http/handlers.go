// Package audithttp serves the admin action trail.
package audithttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chalani/chalani/internal/audit"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/view"
)

const (
	defaultDateRange  = 7 * 24 * time.Hour
	maxDateRangeHours = 24 * 90
	isoDate           = "2006-01-02"
)

// TimelineService defines the business contract for timeline data.
type TimelineService interface {
	Enabled() bool
	Timeline(ctx context.Context, filters audit.TimelineFilters) (audit.Result, error)
	Export(ctx context.Context, filters audit.TimelineFilters) ([]audit.TimelineRow, error)
}

// Handler serves the audit timeline.
type Handler struct {
	logger    *slog.Logger
	service   TimelineService
	templates *view.Engine
	now       func() time.Time
}

// NewHandler creates the audit handler.
func NewHandler(logger *slog.Logger, service TimelineService, templates *view.Engine) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, now: time.Now}
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	tr := i18n.FromContext(r.Context())
	vm := audit.ViewModel{Enabled: h.service.Enabled()}
	status := http.StatusOK
	if vm.Enabled {
		filters, err := h.parseFilters(r)
		vm.Filters = filtersView(r, filters)
		switch {
		case err != nil:
			status = http.StatusBadRequest
			vm.Error = tr.T(err.Error())
		default:
			result, err := h.service.Timeline(r.Context(), filters)
			if err != nil {
				h.logger.Error("load audit timeline", slog.Any("error", err))
				status = http.StatusBadGateway
				vm.Error = tr.T("flash.load_failed")
			} else {
				vm.Rows, vm.Paging = result.Rows, result.Paging
			}
		}
	}
	if err := h.templates.RenderStatus(w, status, "pages/audit.html", h.templates.Page(r, "audit.title", vm)); err != nil {
		h.logger.Error("render audit timeline", slog.Any("error", err))
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	filters, err := h.parseFilters(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	rows, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.handleServerError(w, "export audit timeline", err)
		return
	}
	data, err := audit.WriteCSV(rows)
	if err != nil {
		h.handleServerError(w, "encode csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit_`+h.now().Format(isoDate)+`.csv"`)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

// filterError carries the catalog key of the problem.
type filterError string

func (e filterError) Error() string { return string(e) }

var (
	errRangeFormat  = filterError("flash.range_format")
	errRangeInvalid = filterError("flash.range_invalid")
)

func (h *Handler) parseFilters(r *http.Request) (audit.TimelineFilters, error) {
	q := r.URL.Query()
	now := h.now().UTC()
	toStr := i18n.CleanNumber(q.Get("to"))
	if toStr == "" {
		toStr = now.Format(isoDate)
	}
	toTime, err := time.Parse(isoDate, toStr)
	if err != nil {
		return audit.TimelineFilters{}, errRangeFormat
	}
	fromStr := i18n.CleanNumber(q.Get("from"))
	if fromStr == "" {
		fromStr = toTime.Add(-defaultDateRange).Format(isoDate)
	}
	fromTime, err := time.Parse(isoDate, fromStr)
	if err != nil {
		return audit.TimelineFilters{}, errRangeFormat
	}
	if fromTime.After(toTime) || toTime.Sub(fromTime) > maxDateRangeHours*time.Hour {
		return audit.TimelineFilters{}, errRangeInvalid
	}

	page := 1
	if v := i18n.CleanNumber(q.Get("page")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return audit.TimelineFilters{
		From:     fromTime,
		To:       toTime,
		Actor:    strings.TrimSpace(q.Get("actor")),
		Resource: strings.TrimSpace(q.Get("resource")),
		Action:   strings.TrimSpace(q.Get("action")),
		Page:     page,
	}, nil
}

func filtersView(r *http.Request, filters audit.TimelineFilters) audit.FiltersViewModel {
	q := r.URL.Query()
	vm := audit.FiltersViewModel{From: q.Get("from"), To: q.Get("to"), Actor: q.Get("actor"), Resource: q.Get("resource"), Action: q.Get("action")}
	if !filters.From.IsZero() {
		vm.From = filters.From.Format(isoDate)
		vm.To = filters.To.Format(isoDate)
	}
	return vm
}

func (h *Handler) handleServerError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, audit.ErrDisabled) {
		status = http.StatusNotFound
	}
	h.logger.Error(message, slog.Any("error", err))
	http.Error(w, http.StatusText(status), status)
}
