package letters

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/validation"
)

// Serial number values that mean "no serials".
var serialPlaceholders = map[string]bool{
	"-":    true,
	"--":   true,
	"n/a":  true,
	"na":   true,
	"none": true,
	"—":    true,
}

// SerialCount counts the comma-separated serial numbers of an item. It
// reports false when the value is empty, a placeholder, or a single serial
// without commas, in which case quantity is unconstrained.
func SerialCount(serial string) (int, bool) {
	s := strings.TrimSpace(serial)
	if s == "" || serialPlaceholders[strings.ToLower(s)] || !strings.Contains(s, ",") {
		return 0, false
	}
	n := 0
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n, true
}

// RegisterRules installs the cross-field letter rules on v.
func RegisterRules(v *validation.Validator) {
	v.RegisterStructRule(itemRule, Item{})
	v.RegisterStructRule(formRule, Form{})
}

func itemRule(sl validator.StructLevel) {
	item, ok := sl.Current().Interface().(Item)
	if !ok {
		return
	}
	count, ok := SerialCount(item.SerialNumber)
	if !ok {
		return
	}
	qty, err := strconv.Atoi(i18n.CleanNumber(item.Quantity))
	if err != nil {
		// numeric_np already reports it.
		return
	}
	if qty != count {
		sl.ReportError(item.Quantity, "quantity", "Quantity", "serial_count", strconv.Itoa(count))
	}
}

func formRule(sl validator.StructLevel) {
	form, ok := sl.Current().Interface().(Form)
	if !ok {
		return
	}
	if len(form.Items) == 0 {
		sl.ReportError(form.Items, "items", "Items", "min_items", "")
	}
}
