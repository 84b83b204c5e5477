// Package employees configures the employee screens. The backend offers no
// export endpoint for employees, so exports are built locally.
package employees

import (
	"net/url"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
)

// Form is the employee create/edit form.
type Form struct {
	FullName    string `form:"full_name" validate:"required,max=150"`
	FullNameNP  string `form:"full_name_np" validate:"max=150"`
	Designation string `form:"designation" validate:"required,max=100"`
	Office      string `form:"office" validate:"required,numeric_np"`
	Phone       string `form:"phone" validate:"omitempty,phone_np"`
	Email       string `form:"email" validate:"omitempty,email,max=254"`
}

func (f *Form) Bind(values url.Values)  { crud.BindTagged(f, values) }
func (f *Form) Fill(rec backend.Record) { crud.FillTagged(f, rec) }

func (f *Form) Payload() any {
	return map[string]any{
		"full_name":    f.FullName,
		"full_name_np": f.FullNameNP,
		"designation":  f.Designation,
		"office":       crud.OptionalInt(f.Office),
		"phone":        i18n.ToASCIIDigits(f.Phone),
		"email":        f.Email,
	}
}

// Resource describes the employee screens.
func Resource() *crud.Resource {
	return &crud.Resource{
		Name:  "employees",
		Title: "resource.employees",
		Columns: []crud.Column{
			{Label: "field.full_name", Field: "full_name"},
			{Label: "field.full_name_np", Field: "full_name_np"},
			{Label: "field.designation", Field: "designation"},
			{Label: "field.office", Field: "office", Lookup: "offices"},
			{Label: "field.phone", Field: "phone", Digits: true},
		},
		Fields: []crud.Field{
			{Name: "full_name", Label: "field.full_name", Required: true},
			{Name: "full_name_np", Label: "field.full_name_np"},
			{Name: "designation", Label: "field.designation", Required: true},
			{Name: "office", Label: "field.office", Kind: crud.KindSelect, Lookup: "offices", Required: true},
			{Name: "phone", Label: "field.phone", Kind: crud.KindNumber},
			{Name: "email", Label: "field.email", Kind: crud.KindEmail},
		},
		NewForm:     func() crud.Form { return &Form{} },
		Statuses:    []string{crud.StatusActive, crud.StatusBin},
		ViewRoles:   shared.AdminRoles(),
		EditRoles:   shared.AdminRoles(),
		Lookups:     []string{"offices"},
		LocalExport: true,
	}
}
