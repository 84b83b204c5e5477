// Package crud is the generic list, form and export flow shared by every
// entity screen. Each entity contributes a Resource describing its columns,
// form fields, status tabs and roles.
package crud

import (
	"net/url"
	"slices"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/shared"
)

// Status tags used by the backend.
const (
	StatusActive     = "active"
	StatusBin        = "bin"
	StatusDraft      = "draft"
	StatusDispatched = "dispatched"
)

// FieldKind selects the input widget for a form field.
type FieldKind int

// Input widgets.
const (
	KindText FieldKind = iota
	KindTextarea
	KindEmail
	KindNumber
	KindDate
	KindSelect
)

// Column is one list table column.
type Column struct {
	// Label is the catalog key of the header.
	Label string
	// Field is the dotted record path rendered in the cell.
	Field string
	// Lookup resolves bare ids through the named lookup list.
	Lookup string
	// Digits renders the value with localized numerals.
	Digits bool
}

// Field is one generic form input.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Lookup   string
	Required bool
}

// Form is a validated, entity-specific form. Implementations are struct
// pointers carrying `form` and `validate` tags.
type Form interface {
	// Bind copies submitted values into the form.
	Bind(values url.Values)
	// Fill pre-populates the form from a stored record.
	Fill(rec backend.Record)
	// Payload is the JSON body sent to the backend.
	Payload() any
}

// ItemEditor is implemented by forms with repeatable rows. Apply handles a
// row action such as "add_item" and reports whether it consumed it; consumed
// actions re-render the form without validation.
type ItemEditor interface {
	Apply(action string) bool
}

// Resource configures the generic flow for one entity.
type Resource struct {
	// Name is both the URL segment and the backend collection name.
	Name string
	// Title is the catalog key of the plural title.
	Title    string
	Columns  []Column
	Fields   []Field
	NewForm  func() Form
	Statuses []string

	ViewRoles []string
	EditRoles []string

	// DateRange enables the from/to filter backed by RangePath.
	DateRange bool
	RangePath string
	// LocalExport builds exports from /all-active/ instead of the backend
	// export endpoint.
	LocalExport bool
	// Lookups lists the lookup resources the form selects from.
	Lookups []string
	// Invalidates lists the lookup caches to drop after a mutation.
	Invalidates []string
	// PDF enables the per-record PDF action.
	PDF bool

	FormTemplate   string
	DetailTemplate string
}

// CollectionPath is the backend path of the collection.
func (r *Resource) CollectionPath() string {
	return "/api/" + r.Name + "/"
}

// RecordPath is the backend path of one record.
func (r *Resource) RecordPath(id string) string {
	return "/api/" + r.Name + "/" + id + "/"
}

// BasePath is the admin URL of the list.
func (r *Resource) BasePath() string {
	return "/" + r.Name
}

// DefaultStatus is the first status tab.
func (r *Resource) DefaultStatus() string {
	if len(r.Statuses) == 0 {
		return StatusActive
	}
	return r.Statuses[0]
}

// NormalizeStatus returns status when it is a known tab, else the default.
func (r *Resource) NormalizeStatus(status string) string {
	if slices.Contains(r.Statuses, status) {
		return status
	}
	return r.DefaultStatus()
}

func (r *Resource) formTemplate() string {
	if r.FormTemplate != "" {
		return r.FormTemplate
	}
	return "pages/crud_form.html"
}

func (r *Resource) detailTemplate() string {
	if r.DetailTemplate != "" {
		return r.DetailTemplate
	}
	return "pages/crud_detail.html"
}

func (r *Resource) viewRoles() []string {
	if len(r.ViewRoles) == 0 {
		return shared.AllRoles()
	}
	return r.ViewRoles
}

func (r *Resource) editRoles() []string {
	if len(r.EditRoles) == 0 {
		return shared.EditorRoles()
	}
	return r.EditRoles
}

func (r *Resource) invalidates() []string {
	if len(r.Invalidates) == 0 {
		return []string{r.Name}
	}
	return r.Invalidates
}

// Input is the HTML input type for single-line kinds. Numbers and dates stay
// text inputs so Devanagari digits can be typed.
func (k FieldKind) Input() string {
	if k == KindEmail {
		return "email"
	}
	return "text"
}

// Placeholder hints the expected shape of date fields.
func (k FieldKind) Placeholder() string {
	if k == KindDate {
		return "YYYY-MM-DD"
	}
	return ""
}

// IsTextarea reports whether the field renders as a textarea.
func (k FieldKind) IsTextarea() bool { return k == KindTextarea }

// IsSelect reports whether the field renders as a select.
func (k FieldKind) IsSelect() bool { return k == KindSelect }
