// Package receivers configures the receiver screens.
package receivers

import (
	"net/url"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/i18n"
)

// Form is the receiver create/edit form.
type Form struct {
	Name    string `form:"name" validate:"required,max=200"`
	NameNP  string `form:"name_np" validate:"max=200"`
	Address string `form:"address" validate:"required,max=255"`
	Phone   string `form:"phone" validate:"omitempty,phone_np"`
	Email   string `form:"email" validate:"omitempty,email,max=254"`
}

func (f *Form) Bind(values url.Values)  { crud.BindTagged(f, values) }
func (f *Form) Fill(rec backend.Record) { crud.FillTagged(f, rec) }

func (f *Form) Payload() any {
	return map[string]any{
		"name":    f.Name,
		"name_np": f.NameNP,
		"address": f.Address,
		"phone":   i18n.ToASCIIDigits(f.Phone),
		"email":   f.Email,
	}
}

// Resource describes the receiver screens. Every verified role may browse
// receivers; admins and staff may change them.
func Resource() *crud.Resource {
	return &crud.Resource{
		Name:  "receivers",
		Title: "resource.receivers",
		Columns: []crud.Column{
			{Label: "field.name", Field: "name"},
			{Label: "field.name_np", Field: "name_np"},
			{Label: "field.address", Field: "address"},
			{Label: "field.phone", Field: "phone", Digits: true},
		},
		Fields: []crud.Field{
			{Name: "name", Label: "field.name", Required: true},
			{Name: "name_np", Label: "field.name_np"},
			{Name: "address", Label: "field.address", Required: true},
			{Name: "phone", Label: "field.phone", Kind: crud.KindNumber},
			{Name: "email", Label: "field.email", Kind: crud.KindEmail},
		},
		NewForm:  func() crud.Form { return &Form{} },
		Statuses: []string{crud.StatusActive, crud.StatusBin},
	}
}
