// Package offices configures the office screens.
package offices

import (
	"net/url"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
)

// Form is the office create/edit form.
type Form struct {
	Name    string `form:"name" validate:"required,max=150"`
	NameNP  string `form:"name_np" validate:"max=150"`
	Branch  string `form:"branch" validate:"required,numeric_np"`
	Address string `form:"address" validate:"max=255"`
	Phone   string `form:"phone" validate:"omitempty,phone_np"`
}

func (f *Form) Bind(values url.Values)  { crud.BindTagged(f, values) }
func (f *Form) Fill(rec backend.Record) { crud.FillTagged(f, rec) }

func (f *Form) Payload() any {
	return map[string]any{
		"name":    f.Name,
		"name_np": f.NameNP,
		"branch":  crud.OptionalInt(f.Branch),
		"address": f.Address,
		"phone":   i18n.ToASCIIDigits(f.Phone),
	}
}

// Resource describes the office screens.
func Resource() *crud.Resource {
	return &crud.Resource{
		Name:  "offices",
		Title: "resource.offices",
		Columns: []crud.Column{
			{Label: "field.name", Field: "name"},
			{Label: "field.name_np", Field: "name_np"},
			{Label: "field.branch", Field: "branch", Lookup: "branches"},
			{Label: "field.phone", Field: "phone", Digits: true},
		},
		Fields: []crud.Field{
			{Name: "name", Label: "field.name", Required: true},
			{Name: "name_np", Label: "field.name_np"},
			{Name: "branch", Label: "field.branch", Kind: crud.KindSelect, Lookup: "branches", Required: true},
			{Name: "address", Label: "field.address"},
			{Name: "phone", Label: "field.phone", Kind: crud.KindNumber},
		},
		NewForm:     func() crud.Form { return &Form{} },
		Statuses:    []string{crud.StatusActive, crud.StatusBin},
		ViewRoles:   shared.AdminRoles(),
		EditRoles:   shared.AdminRoles(),
		Lookups:     []string{"branches"},
		Invalidates: []string{"offices", "employees"},
	}
}
