package crud

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const (
	octetStream    = "application/octet-stream"
	maxExportPages = 500
)

// errNoData marks an export with nothing to write.
var errNoData = errors.New("crud: nothing to export")

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	q := r.URL.Query()
	format := q.Get("format")
	if format != FormatXLSX {
		format = FormatCSV
	}
	status := h.res.NormalizeStatus(q.Get("status"))
	back := h.listURL(status, "")

	var (
		blob backend.Blob
		err  error
	)
	if h.res.LocalExport {
		blob, err = h.localExport(r, status, format)
	} else {
		params := url.Values{"format": {format}, "status": {status}}
		if h.res.DateRange {
			if rng, problem := ParseDateRange(q.Get("from"), q.Get("to")); problem == "" && rng.Active() {
				params.Set("start_date", rng.From)
				params.Set("end_date", rng.To)
			}
		}
		blob, err = h.deps.Backend.Download(ctx, "/api/"+h.res.Name+"/export/", params)
		if err == nil && len(blob.Data) == 0 {
			err = errNoData
		}
	}
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) || errors.Is(err, errNoData) {
			h.redirectWithFlash(w, r, back, "warning", tr.T("flash.export_none"))
			return
		}
		h.logger.Warn("export failed", slog.String("format", format), slog.Any("error", err))
		h.redirectWithFlash(w, r, back, "error", tr.T("flash.export_failed"))
		return
	}

	contentType := blob.ContentType
	if contentType == "" || contentType == octetStream {
		contentType = mimetype.Detect(blob.Data).String()
	}
	filename := blob.Filename
	if filename == "" {
		filename = ExportFilename(h.res.Name, format, h.deps.Now())
	}
	h.audit(ctx, shared.AuditExport, "", map[string]any{"format": format, "status": status})

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		h.logger.Warn("write export", slog.Any("error", err))
	}
}

// ExportFilename builds the default attachment name, {resource}_{date}.{ext}.
func ExportFilename(resource, format string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", resource, now.Format(isoDate), format)
}

// localExport renders the active records of the resource with the list
// columns, for resources the backend cannot export.
func (h *Handler) localExport(r *http.Request, status, format string) (backend.Blob, error) {
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	records, err := h.collect(r, status)
	if err != nil {
		return backend.Blob{}, err
	}
	if len(records) == 0 {
		return backend.Blob{}, errNoData
	}
	header := make([]string, 0, len(h.res.Columns))
	for _, col := range h.res.Columns {
		header = append(header, tr.T(col.Label))
	}
	rows := h.rows(ctx, records, i18n.For(i18n.English))
	if format == FormatXLSX {
		data, err := writeXLSX(tr.T(h.res.Title), header, rows)
		return backend.Blob{Data: data}, err
	}
	data, err := writeCSV(header, rows)
	return backend.Blob{Data: data, ContentType: "text/csv; charset=utf-8"}, err
}

// collect gathers every record with status. Active records come from the
// unpaginated /all-active/ endpoint; other tabs are walked page by page.
func (h *Handler) collect(r *http.Request, status string) ([]backend.Record, error) {
	ctx := r.Context()
	if status == StatusActive {
		return h.deps.Backend.All(ctx, h.res.CollectionPath()+"all-active/", nil)
	}
	var out []backend.Record
	for page := 1; page <= maxExportPages; page++ {
		p, err := h.deps.Backend.List(ctx, h.res.CollectionPath(), url.Values{
			"status": {status},
			"page":   {strconv.Itoa(page)},
		})
		if err != nil {
			if page > 1 && errors.Is(err, backend.ErrNotFound) {
				break
			}
			return nil, err
		}
		out = append(out, p.Items...)
		if p.Next == "" || len(p.Items) == 0 {
			break
		}
	}
	return out, nil
}

func writeCSV(header []string, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := cw.Write(row.Cells); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

func writeXLSX(sheet string, header []string, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if len([]rune(sheet)) > 31 {
		sheet = string([]rune(sheet)[:31])
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}
	headerCells := make([]any, len(header))
	for i, v := range header {
		headerCells[i] = excelize.Cell{Value: v}
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cells := make([]any, len(row.Cells))
		for j, v := range row.Cells {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
