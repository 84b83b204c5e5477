package letters

import (
	"github.com/chalani/chalani/internal/crud"
)

// RangePath is the backend endpoint for date-filtered letters.
const RangePath = "/api/letters/date-range/"

// Resource describes the letter screens. Every verified role may read
// letters; admins and staff may write them.
func Resource() *crud.Resource {
	return &crud.Resource{
		Name:  "letters",
		Title: "resource.letters",
		Columns: []crud.Column{
			{Label: "field.dispatch_number", Field: "dispatch_number", Digits: true},
			{Label: "field.date_bs", Field: "date_bs", Digits: true},
			{Label: "field.subject", Field: "subject"},
			{Label: "field.receiver", Field: "receiver.name"},
			{Label: "field.office", Field: "office", Lookup: "offices"},
		},
		Fields: []crud.Field{
			{Name: "dispatch_number", Label: "field.dispatch_number", Kind: crud.KindNumber},
			{Name: "subject", Label: "field.subject", Required: true},
			{Name: "date_bs", Label: "field.date_bs", Kind: crud.KindDate, Required: true},
			{Name: "date_ad", Label: "field.date_ad", Kind: crud.KindDate},
			{Name: "office", Label: "field.office", Kind: crud.KindSelect, Lookup: "offices", Required: true},
			{Name: "signatory", Label: "field.signatory", Kind: crud.KindSelect, Lookup: "employees", Required: true},
			{Name: "remarks", Label: "field.remarks", Kind: crud.KindTextarea},
		},
		NewForm:        func() crud.Form { return NewForm() },
		Statuses:       []string{crud.StatusDraft, crud.StatusDispatched, crud.StatusBin},
		DateRange:      true,
		RangePath:      RangePath,
		Lookups:        []string{"offices", "employees", "products"},
		PDF:            true,
		FormTemplate:   "pages/letter_form.html",
		DetailTemplate: "pages/letter_detail.html",
	}
}
