// Package letters configures the outbound letter (chalani) screens: a form
// with an embedded receiver and repeatable line items, the serial number
// rule, and the per-letter PDF.
package letters

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/i18n"
)

// Row actions understood by Apply.
const (
	ActionAddItem    = "add_item"
	ActionRemoveItem = "remove_item:"
)

// Receiver is the addressee embedded in a letter.
type Receiver struct {
	Name    string `form:"name" validate:"required,max=200"`
	Address string `form:"address" validate:"required,max=255"`
	Phone   string `form:"phone" validate:"omitempty,phone_np"`
	Email   string `form:"email" validate:"omitempty,email,max=254"`
}

// Item is one dispatched line.
type Item struct {
	Product      string `form:"product" validate:"required,numeric_np"`
	Quantity     string `form:"quantity" validate:"required,numeric_np"`
	SerialNumber string `form:"serial_number" validate:"max=2000"`
	Remarks      string `form:"remarks" validate:"max=500"`
}

// Form is the letter create/edit form.
type Form struct {
	DispatchNumber string `form:"dispatch_number" validate:"max=50"`
	Subject        string `form:"subject" validate:"required,max=255"`
	DateBS         string `form:"date_bs" validate:"required,bsdate"`
	DateAD         string `form:"date_ad" validate:"omitempty,datetime=2006-01-02"`
	Office         string `form:"office" validate:"required,numeric_np"`
	Signatory      string `form:"signatory" validate:"required,numeric_np"`
	Remarks        string `form:"remarks" validate:"max=1000"`

	Receiver Receiver `form:"receiver"`
	Items    []Item   `form:"items" validate:"dive"`
}

// NewForm returns a blank form with one empty item row.
func NewForm() *Form {
	return &Form{Items: []Item{{}}}
}

// Bind reads the flat fields plus "receiver.*" and "items.N.*" keys. Item
// rows keep the order of their submitted indexes.
func (f *Form) Bind(values url.Values) {
	crud.BindTagged(f, values)
	f.DateBS = i18n.ToASCIIDigits(f.DateBS)
	f.DateAD = i18n.ToASCIIDigits(f.DateAD)
	crud.BindTagged(&f.Receiver, withPrefix(values, "receiver."))

	rows := make(map[int]url.Values)
	for key, vals := range values {
		rest, ok := strings.CutPrefix(key, "items.")
		if !ok {
			continue
		}
		idx, field, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			continue
		}
		if rows[n] == nil {
			rows[n] = url.Values{}
		}
		rows[n][field] = vals
	}
	indexes := make([]int, 0, len(rows))
	for n := range rows {
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)
	f.Items = make([]Item, 0, len(indexes))
	for _, n := range indexes {
		var item Item
		crud.BindTagged(&item, rows[n])
		f.Items = append(f.Items, item)
	}
}

// Fill pre-populates the form from a stored letter.
func (f *Form) Fill(rec backend.Record) {
	crud.FillTagged(f, rec)
	if nested, ok := rec.Value("receiver").(map[string]any); ok {
		crud.FillTagged(&f.Receiver, backend.Record(nested))
	}
	f.Items = f.Items[:0]
	for _, raw := range rec.Records("items") {
		var item Item
		crud.FillTagged(&item, raw)
		f.Items = append(f.Items, item)
	}
	if len(f.Items) == 0 {
		f.Items = []Item{{}}
	}
}

// Payload is the JSON body of a letter. Digits are sent in ASCII.
func (f *Form) Payload() any {
	items := make([]map[string]any, 0, len(f.Items))
	for _, item := range f.Items {
		items = append(items, map[string]any{
			"product":       crud.OptionalInt(item.Product),
			"quantity":      crud.OptionalInt(item.Quantity),
			"serial_number": strings.TrimSpace(item.SerialNumber),
			"remarks":       item.Remarks,
		})
	}
	return map[string]any{
		"dispatch_number": crud.OptionalString(i18n.ToASCIIDigits(f.DispatchNumber)),
		"subject":         f.Subject,
		"date_bs":         f.DateBS,
		"date_ad":         crud.OptionalString(f.DateAD),
		"office":          crud.OptionalInt(f.Office),
		"signatory":       crud.OptionalInt(f.Signatory),
		"remarks":         f.Remarks,
		"receiver": map[string]any{
			"name":    f.Receiver.Name,
			"address": f.Receiver.Address,
			"phone":   i18n.ToASCIIDigits(f.Receiver.Phone),
			"email":   f.Receiver.Email,
		},
		"items": items,
	}
}

// Apply handles the add and remove row actions. The form always keeps at
// least one row to type into.
func (f *Form) Apply(action string) bool {
	switch {
	case action == ActionAddItem:
		f.Items = append(f.Items, Item{})
		return true
	case strings.HasPrefix(action, ActionRemoveItem):
		n, err := strconv.Atoi(strings.TrimPrefix(action, ActionRemoveItem))
		if err != nil || n < 0 || n >= len(f.Items) {
			return true
		}
		f.Items = append(f.Items[:n], f.Items[n+1:]...)
		if len(f.Items) == 0 {
			f.Items = []Item{{}}
		}
		return true
	}
	return false
}

func withPrefix(values url.Values, prefix string) url.Values {
	out := url.Values{}
	for key, vals := range values {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			out[rest] = vals
		}
	}
	return out
}
