// Package products configures the product screens.
package products

import (
	"net/url"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
)

// Form is the product create/edit form.
type Form struct {
	Name        string `form:"name" validate:"required,max=150"`
	NameNP      string `form:"name_np" validate:"max=150"`
	Code        string `form:"code" validate:"max=30"`
	Unit        string `form:"unit" validate:"required,max=30"`
	Description string `form:"description" validate:"max=1000"`
}

func (f *Form) Bind(values url.Values)  { crud.BindTagged(f, values) }
func (f *Form) Fill(rec backend.Record) { crud.FillTagged(f, rec) }

func (f *Form) Payload() any {
	return map[string]any{
		"name":        f.Name,
		"name_np":     f.NameNP,
		"code":        crud.OptionalString(f.Code),
		"unit":        f.Unit,
		"description": f.Description,
	}
}

// Resource describes the product screens.
func Resource() *crud.Resource {
	return &crud.Resource{
		Name:  "products",
		Title: "resource.products",
		Columns: []crud.Column{
			{Label: "field.code", Field: "code"},
			{Label: "field.name", Field: "name"},
			{Label: "field.name_np", Field: "name_np"},
			{Label: "field.unit", Field: "unit"},
		},
		Fields: []crud.Field{
			{Name: "name", Label: "field.name", Required: true},
			{Name: "name_np", Label: "field.name_np"},
			{Name: "code", Label: "field.code"},
			{Name: "unit", Label: "field.unit", Required: true},
			{Name: "description", Label: "field.description", Kind: crud.KindTextarea},
		},
		NewForm:  func() crud.Form { return &Form{} },
		Statuses: []string{crud.StatusActive, crud.StatusBin},
	}
}
