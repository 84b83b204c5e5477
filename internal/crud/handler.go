package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/lookups"
	"github.com/chalani/chalani/internal/rbac"
	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/validation"
	"github.com/chalani/chalani/internal/view"
)

// Backend is the part of the backend client used by the generic screens.
type Backend interface {
	Pager
	All(ctx context.Context, path string, query url.Values) ([]backend.Record, error)
	Get(ctx context.Context, path string) (backend.Record, error)
	Create(ctx context.Context, path string, payload any) (backend.Record, error)
	Update(ctx context.Context, path string, payload any) (backend.Record, error)
	Post(ctx context.Context, path string, payload any) error
	Download(ctx context.Context, path string, query url.Values) (backend.Blob, error)
}

// Lookups provides select options and drops them after mutations.
type Lookups interface {
	Options(ctx context.Context, resource string) ([]lookups.Option, error)
	Invalidate(ctx context.Context, resources ...string) error
}

// Deps groups the collaborators shared by every resource handler.
type Deps struct {
	Logger    *slog.Logger
	Backend   Backend
	Templates *view.Engine
	Lookups   Lookups
	Validator *validation.Validator
	Auditor   shared.Auditor
	RBAC      rbac.Middleware
	PageSize  int
	Now       func() time.Time
}

// Handler serves list, form, detail and export pages for one Resource.
type Handler struct {
	res    *Resource
	deps   Deps
	logger *slog.Logger
	lister *Lister
}

// NewHandler builds a Handler for res.
func NewHandler(res *Resource, deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.PageSize <= 0 {
		deps.PageSize = shared.DefaultPageSize
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Validator == nil {
		deps.Validator = validation.MustNew()
	}
	logger := deps.Logger.With(slog.String("resource", res.Name))
	return &Handler{res: res, deps: deps, logger: logger, lister: NewLister(deps.Backend, logger)}
}

// Resource returns the configuration served by h.
func (h *Handler) Resource() *Resource {
	return h.res
}

// MountRoutes registers the resource routes relative to its base path.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.RBAC.RequireAny(h.res.viewRoles()...))
		r.Get("/", h.list)
		r.Get("/export", h.export)
		r.Get("/{id:[0-9]+}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.deps.RBAC.RequireAny(h.res.editRoles()...))
		r.Get("/new", h.showForm)
		r.Post("/", h.create)
		r.Get("/{id:[0-9]+}/edit", h.showEditForm)
		r.Post("/{id:[0-9]+}/edit", h.update)
		r.Post("/{id:[0-9]+}/delete", h.softDelete)
		r.Post("/{id:[0-9]+}/restore", h.restore)
	})
}

type statusTab struct {
	Status string
	Active bool
}

// Row is one rendered list row.
type Row struct {
	ID     int64
	Cells  []string
	Status string
}

type listPage struct {
	Resource   *Resource
	Status     string
	Tabs       []statusTab
	Rows       []Row
	Pagination shared.Pagination
	Links      []int
	Range      DateRange
	From       string
	To         string
	RangeError string
	Error      string
	Fallback   bool
}

type formPage struct {
	Resource *Resource
	Form     Form
	Values   map[string]string
	Errors   map[string]string
	General  string
	Options  map[string][]lookups.Option
	Action   string
	Edit     bool
	ID       string
}

type detailField struct {
	Label string
	Value string
}

type detailPage struct {
	Resource *Resource
	ID       string
	Record   backend.Record
	Fields   []detailField
}

type errorPage struct {
	Message string
	Back    string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	q := r.URL.Query()
	status := h.res.NormalizeStatus(q.Get("status"))
	page := parsePage(q.Get("page"))
	data := listPage{Resource: h.res, Status: status, Tabs: h.tabs(status)}

	var rng DateRange
	if h.res.DateRange {
		var problem string
		rng, problem = ParseDateRange(q.Get("from"), q.Get("to"))
		if problem != "" {
			data.RangeError = tr.T(problem)
		}
		data.From, data.To = q.Get("from"), q.Get("to")
	}

	var (
		result ListResult
		err    error
	)
	if rng.Active() {
		data.Range = rng
		result, err = h.lister.FetchRange(ctx, h.res.RangePath, status, rng.From, rng.To)
	} else {
		sess := shared.SessionFromContext(ctx)
		key := cursorKey(h.res.Name, status)
		var cursor *Cursor
		var stored Cursor
		if sess != nil && sess.GetJSON(key, &stored) {
			cursor = &stored
		}
		var next Cursor
		result, next, err = h.lister.Fetch(ctx, h.res.CollectionPath(), status, page, cursor)
		if err == nil && sess != nil {
			if serr := sess.SetJSON(key, next); serr != nil {
				h.logger.Warn("store list cursor", slog.Any("error", serr))
			}
		}
	}

	code := http.StatusOK
	if err != nil {
		h.logger.Warn("list load failed", slog.Int("page", page), slog.Any("error", err))
		data.Error = tr.T("flash.load_failed")
		code = http.StatusBadGateway
	} else {
		data.Rows = h.rows(ctx, result.Page.Items, tr)
		data.Fallback = result.Fallback
		if !rng.Active() {
			data.Pagination = shared.NewPagination(result.Number, h.deps.PageSize, result.Page.Count)
			data.Links = data.Pagination.Links(7)
		}
	}
	h.render(w, r, code, "pages/crud_list.html", h.res.Title, data)
}

func (h *Handler) tabs(active string) []statusTab {
	tabs := make([]statusTab, 0, len(h.res.Statuses))
	for _, s := range h.res.Statuses {
		tabs = append(tabs, statusTab{Status: s, Active: s == active})
	}
	return tabs
}

func (h *Handler) rows(ctx context.Context, items []backend.Record, tr i18n.Translator) []Row {
	labels := make(map[string]map[int64]string)
	rows := make([]Row, 0, len(items))
	for _, rec := range items {
		row := Row{ID: rec.ID(), Status: rec.Status(), Cells: make([]string, 0, len(h.res.Columns))}
		for _, col := range h.res.Columns {
			cell := rec.String(col.Field)
			if col.Lookup != "" {
				if _, nested := rec.Value(col.Field).(map[string]any); !nested {
					if _, ok := labels[col.Lookup]; !ok {
						labels[col.Lookup] = h.lookupLabels(ctx, col.Lookup)
					}
					if label, ok := labels[col.Lookup][rec.Int(col.Field)]; ok {
						cell = label
					}
				}
			}
			if col.Digits {
				cell = tr.Digits(cell)
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *Handler) lookupLabels(ctx context.Context, resource string) map[int64]string {
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

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.fetch(w, r, id)
	if !ok {
		return
	}
	data := detailPage{Resource: h.res, ID: id, Record: rec}
	form := h.res.NewForm()
	form.Fill(rec)
	values := ValuesOf(form)
	for _, f := range h.res.Fields {
		value := values[f.Name]
		if f.Lookup != "" {
			if nested, isMap := rec.Value(f.Name).(map[string]any); isMap {
				value = backend.Record(nested).String("name")
			} else if label, found := h.lookupLabels(r.Context(), f.Lookup)[rec.Int(f.Name)]; found {
				value = label
			}
		}
		data.Fields = append(data.Fields, detailField{Label: f.Label, Value: value})
	}
	h.render(w, r, http.StatusOK, h.res.detailTemplate(), h.res.Title, data)
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	form := h.res.NewForm()
	h.renderForm(w, r, http.StatusOK, form, nil, "", "")
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, errs, handled := h.bind(w, r, "")
	if handled {
		return
	}
	if len(errs) > 0 {
		h.renderForm(w, r, http.StatusBadRequest, form, errs, "", "")
		return
	}
	ctx := r.Context()
	rec, err := h.deps.Backend.Create(ctx, h.res.CollectionPath(), form.Payload())
	if err != nil {
		h.renderBackendError(w, r, form, err, "")
		return
	}
	h.afterMutation(ctx, shared.AuditCreate, strconv.FormatInt(rec.ID(), 10))
	tr := i18n.FromContext(ctx)
	h.redirectWithFlash(w, r, h.res.BasePath(), "success", tr.T("flash.created", h.label(rec, form)))
}

func (h *Handler) showEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.fetch(w, r, id)
	if !ok {
		return
	}
	form := h.res.NewForm()
	form.Fill(rec)
	h.renderForm(w, r, http.StatusOK, form, nil, "", id)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form, errs, handled := h.bind(w, r, id)
	if handled {
		return
	}
	if len(errs) > 0 {
		h.renderForm(w, r, http.StatusBadRequest, form, errs, "", id)
		return
	}
	ctx := r.Context()
	rec, err := h.deps.Backend.Update(ctx, h.res.RecordPath(id), form.Payload())
	if err != nil {
		h.renderBackendError(w, r, form, err, id)
		return
	}
	h.afterMutation(ctx, shared.AuditUpdate, id)
	tr := i18n.FromContext(ctx)
	h.redirectWithFlash(w, r, h.res.BasePath(), "success", tr.T("flash.updated", h.label(rec, form)))
}

// bind parses and validates the submitted form. Row actions are handled
// here by re-rendering, in which case handled is true.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, id string) (Form, validation.FieldErrors, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, nil, true
	}
	form := h.res.NewForm()
	form.Bind(r.PostForm)
	if editor, ok := form.(ItemEditor); ok {
		if action := r.PostFormValue("_action"); action != "" && editor.Apply(action) {
			h.renderForm(w, r, http.StatusOK, form, nil, "", id)
			return form, nil, true
		}
	}
	return form, h.deps.Validator.Struct(form), false
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, "soft-delete", shared.AuditDelete, "flash.deleted")
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, "restore", shared.AuditRestore, "flash.restored")
}

func (h *Handler) statusAction(w http.ResponseWriter, r *http.Request, endpoint, action, successKey string) {
	ctx := r.Context()
	tr := i18n.FromContext(ctx)
	id := chi.URLParam(r, "id")
	back := h.listURL(r.PostFormValue("status"), r.PostFormValue("page"))
	if err := h.deps.Backend.Post(ctx, h.res.RecordPath(id)+endpoint+"/", nil); err != nil {
		h.logger.Warn("status action failed", slog.String("action", action), slog.String("id", id), slog.Any("error", err))
		h.redirectWithFlash(w, r, back, "error", tr.T("flash.action_failed", userMessage(tr, err)))
		return
	}
	h.afterMutation(ctx, action, id)
	h.redirectWithFlash(w, r, back, "success", tr.T(successKey))
}

func (h *Handler) listURL(status, page string) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", h.res.NormalizeStatus(status))
	}
	if p := parsePage(page); p > 1 {
		q.Set("page", strconv.Itoa(p))
	}
	if len(q) == 0 {
		return h.res.BasePath()
	}
	return h.res.BasePath() + "?" + q.Encode()
}

func (h *Handler) afterMutation(ctx context.Context, action, id string) {
	if h.deps.Lookups != nil {
		if err := h.deps.Lookups.Invalidate(ctx, h.res.invalidates()...); err != nil {
			h.logger.Warn("invalidate lookups", slog.Any("error", err))
		}
	}
	h.audit(ctx, action, id, nil)
}

func (h *Handler) audit(ctx context.Context, action, id string, meta map[string]any) {
	if h.deps.Auditor == nil {
		return
	}
	entry := shared.AuditLog{Action: action, Resource: h.res.Name, RecordID: id, Meta: meta, At: h.deps.Now().UTC()}
	if user, ok := shared.UserFromContext(ctx); ok {
		entry.Actor = user.Username
		entry.Role = user.Role
	}
	if err := h.deps.Auditor.Record(ctx, entry); err != nil {
		h.logger.Warn("record audit", slog.String("action", action), slog.Any("error", err))
	}
}

// fetch loads one record, rendering the error page itself on failure.
func (h *Handler) fetch(w http.ResponseWriter, r *http.Request, id string) (backend.Record, bool) {
	rec, err := h.deps.Backend.Get(r.Context(), h.res.RecordPath(id))
	if err == nil {
		return rec, true
	}
	tr := i18n.FromContext(r.Context())
	if errors.Is(err, backend.ErrNotFound) {
		h.renderError(w, r, http.StatusNotFound, tr.T("error.not_found"))
		return nil, false
	}
	h.logger.Warn("record load failed", slog.String("id", id), slog.Any("error", err))
	h.renderError(w, r, http.StatusBadGateway, tr.T("error.load"))
	return nil, false
}

func (h *Handler) renderBackendError(w http.ResponseWriter, r *http.Request, form Form, err error, id string) {
	tr := i18n.FromContext(r.Context())
	status := http.StatusBadGateway
	var fields map[string]string
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && errors.Is(err, backend.ErrValidation) {
		status = http.StatusBadRequest
		fields = apiErr.Fields
	}
	h.logger.Warn("save failed", slog.String("id", id), slog.Any("error", err))
	h.renderFormFields(w, r, status, form, fields, userMessage(tr, err), id)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, form Form, errs validation.FieldErrors, general, id string) {
	var fields map[string]string
	if len(errs) > 0 {
		fields = errs.Translate(i18n.FromContext(r.Context()))
	}
	h.renderFormFields(w, r, status, form, fields, general, id)
}

func (h *Handler) renderFormFields(w http.ResponseWriter, r *http.Request, status int, form Form, fields map[string]string, general, id string) {
	data := formPage{
		Resource: h.res,
		Form:     form,
		Values:   ValuesOf(form),
		Errors:   fields,
		General:  general,
		Options:  h.options(r.Context()),
		Action:   h.res.BasePath(),
		Edit:     id != "",
		ID:       id,
	}
	if data.Edit {
		data.Action = fmt.Sprintf("%s/%s/edit", h.res.BasePath(), id)
	}
	h.render(w, r, status, h.res.formTemplate(), h.res.Title, data)
}

func (h *Handler) options(ctx context.Context) map[string][]lookups.Option {
	out := make(map[string][]lookups.Option, len(h.res.Lookups))
	if h.deps.Lookups == nil {
		return out
	}
	for _, name := range h.res.Lookups {
		opts, err := h.deps.Lookups.Options(ctx, name)
		if err != nil {
			h.logger.Warn("load lookup", slog.String("lookup", name), slog.Any("error", err))
			continue
		}
		out[name] = opts
	}
	return out
}

func (h *Handler) label(rec backend.Record, form Form) string {
	if rec.ID() != 0 {
		return lookups.Label(rec)
	}
	if len(h.res.Fields) > 0 {
		return ValuesOf(form)[h.res.Fields[0].Name]
	}
	return ""
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "pages/error.html", "error.general", errorPage{Message: message, Back: h.res.BasePath()})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if err := h.deps.Templates.RenderStatus(w, status, name, h.deps.Templates.Page(r, title, data)); err != nil {
		h.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func userMessage(tr i18n.Translator, err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return tr.T("error.backend")
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(i18n.CleanNumber(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func cursorKey(resource, status string) string {
	return "cursor:" + resource + ":" + status
}
