package letters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/lookups"
	"github.com/chalani/chalani/internal/shared"
)

const pdfTemplate = "pdf/letter.html"

// Renderer converts an HTML document to PDF.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFHandler serves GET /letters/{id}/pdf.
type PDFHandler struct {
	deps     crud.Deps
	renderer Renderer
	logger   *slog.Logger
}

// NewPDFHandler constructs a PDFHandler over the shared resource deps.
func NewPDFHandler(deps crud.Deps, renderer Renderer) *PDFHandler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &PDFHandler{deps: deps, renderer: renderer, logger: logger.With(slog.String("resource", "letters"))}
}

// ItemView is one printed line item.
type ItemView struct {
	Product      string
	Quantity     string
	SerialNumber string
	Remarks      string
}

// LetterView is the printable form of a letter with lookup ids resolved.
type LetterView struct {
	ID             string
	DispatchNumber string
	Subject        string
	DateBS         string
	DateAD         string
	Office         string
	Signatory      string
	Remarks        string
	Receiver       backend.Record
	Items          []ItemView
}

type errorPage struct {
	Message string
	Back    string
}

// MountRoutes registers the PDF route relative to the letters mount point.
func (h *PDFHandler) MountRoutes(r chi.Router) {
	r.With(h.deps.RBAC.RequireAny(shared.AllRoles()...)).Get("/{id:[0-9]+}/pdf", h.ServeHTTP)
}

// ServeHTTP renders the letter and returns it inline as application/pdf.
func (h *PDFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	id := chi.URLParam(r, "id")
	rec, err := h.deps.Backend.Get(ctx, "/api/letters/"+id+"/")
	if err != nil {
		status, key := http.StatusBadGateway, "error.load"
		if errors.Is(err, backend.ErrNotFound) {
			status, key = http.StatusNotFound, "error.not_found"
		} else {
			h.logger.Warn("letter load failed", slog.String("id", id), slog.Any("error", err))
		}
		h.renderError(w, r, status, tr.T(key))
		return
	}

	letter := h.Describe(ctx, rec)
	html, err := h.deps.Templates.RenderString(pdfTemplate, h.deps.Templates.Document(ctx, "resource.letters", letter))
	if err == nil {
		var pdf []byte
		pdf, err = h.renderer.RenderHTML(ctx, html)
		if err == nil {
			h.audit(ctx, id)
			filename := fmt.Sprintf("letter_%s.pdf", letter.fileStem())
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
			w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(pdf)
			return
		}
	}
	h.logger.Error("letter pdf failed", slog.String("id", id), slog.Any("error", err))
	if sess := shared.SessionFromContext(ctx); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: tr.T("flash.pdf_failed")})
	}
	http.Redirect(w, r, "/letters/"+id, http.StatusSeeOther)
}

// Describe resolves the office, signatory and product references of rec.
func (h *PDFHandler) Describe(ctx context.Context, rec backend.Record) LetterView {
	labels := make(map[string]map[int64]string)
	resolve := func(resource string, value any) string {
		switch v := value.(type) {
		case nil:
			return ""
		case map[string]any:
			return lookups.Label(backend.Record(v))
		}
		if _, ok := labels[resource]; !ok {
			labels[resource] = h.labels(ctx, resource)
		}
		id := backend.Record{"id": value}.ID()
		if label, ok := labels[resource][id]; ok {
			return label
		}
		return strconv.FormatInt(id, 10)
	}

	view := LetterView{
		ID:             strconv.FormatInt(rec.ID(), 10),
		DispatchNumber: rec.String("dispatch_number"),
		Subject:        rec.String("subject"),
		DateBS:         rec.String("date_bs"),
		DateAD:         rec.String("date_ad"),
		Office:         resolve("offices", rec.Value("office")),
		Signatory:      resolve("employees", rec.Value("signatory")),
		Remarks:        rec.String("remarks"),
		Receiver:       backend.Record{},
	}
	if nested, ok := rec.Value("receiver").(map[string]any); ok {
		view.Receiver = backend.Record(nested)
	}
	for _, item := range rec.Records("items") {
		view.Items = append(view.Items, ItemView{
			Product:      resolve("products", item.Value("product")),
			Quantity:     item.String("quantity"),
			SerialNumber: item.String("serial_number"),
			Remarks:      item.String("remarks"),
		})
	}
	return view
}

func (v LetterView) fileStem() string {
	if v.DispatchNumber != "" {
		return i18n.ToASCIIDigits(v.DispatchNumber)
	}
	return v.ID
}

func (h *PDFHandler) labels(ctx context.Context, resource string) map[int64]string {
	out := make(map[int64]string)
	if h.deps.Lookups == nil {
		return out
	}
	opts, err := h.deps.Lookups.Options(ctx, resource)
	if err != nil {
		h.logger.Warn("lookup labels", slog.String("lookup", resource), slog.Any("error", err))
		return out
	}
	for _, opt := range opts {
		out[opt.ID] = opt.Label
	}
	return out
}

func (h *PDFHandler) audit(ctx context.Context, id string) {
	if h.deps.Auditor == nil {
		return
	}
	entry := shared.AuditLog{
		Action:   shared.AuditExport,
		Resource: "letters",
		RecordID: id,
		Meta:     map[string]any{"format": "pdf"},
		At:       h.deps.Now().UTC(),
	}
	if user, ok := shared.UserFromContext(ctx); ok {
		entry.Actor, entry.Role = user.Username, user.Role
	}
	if err := h.deps.Auditor.Record(ctx, entry); err != nil {
		h.logger.Warn("record audit", slog.Any("error", err))
	}
}

func (h *PDFHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := h.deps.Templates.Page(r, "error.general", errorPage{Message: message, Back: "/letters"})
	if err := h.deps.Templates.RenderStatus(w, status, "pages/error.html", data); err != nil {
		h.logger.Error("render template", slog.Any("error", err))
	}
}
