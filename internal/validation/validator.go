// Package validation binds go-playground/validator to the admin forms and
// renders its errors as localized per-field messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chalani/chalani/internal/i18n"
)

// FieldError is a single failed rule for a form field.
type FieldError struct {
	Tag   string
	Param string
}

// FieldErrors maps form field names (dotted for nested fields, such as
// "items.0.quantity") to their first failed rule.
type FieldErrors map[string]FieldError

// Translate renders the errors in the translator's language.
func (fe FieldErrors) Translate(tr i18n.Translator) map[string]string {
	out := make(map[string]string, len(fe))
	for field, e := range fe {
		key := "validation." + e.Tag
		var msg string
		if parameterised[e.Tag] {
			msg = tr.T(key, e.Param)
		} else {
			msg = tr.T(key)
		}
		if msg == key {
			msg = tr.T("validation.invalid")
		}
		out[field] = msg
	}
	return out
}

// Tags whose message embeds the rule parameter.
var parameterised = map[string]bool{
	"min":          true,
	"max":          true,
	"gt":           true,
	"serial_count": true,
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator using `form` tags for field names.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := registerRules(v); err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// MustNew is New for package-level wiring where rule registration cannot fail
// at runtime.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// RegisterStructRule attaches a cross-field rule for the given struct types.
func (v *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...any) {
	v.validate.RegisterStructValidation(fn, types...)
}

// Struct validates s and returns nil when it passes.
func (v *Validator) Struct(s any) FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"general": {Tag: "invalid"}}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe.Namespace())
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = FieldError{Tag: fe.Tag(), Param: fe.Param()}
	}
	return out
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "LetterForm.items[0].quantity" into "items.0.quantity".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}
