package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/i18n"
)

type sampleLine struct {
	Quantity string `form:"quantity" validate:"required,numeric_np"`
}

type sampleForm struct {
	Name  string       `form:"name" validate:"required,max=5"`
	Phone string       `form:"phone" validate:"omitempty,phone_np"`
	Date  string       `form:"date_bs" validate:"required,bsdate"`
	Lines []sampleLine `form:"items" validate:"dive"`
}

func TestStructCollectsDottedFieldNames(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	errs := v.Struct(sampleForm{
		Name:  "Too long name",
		Phone: "abc",
		Date:  "2081-13-01",
		Lines: []sampleLine{{Quantity: "३"}, {Quantity: "x"}},
	})
	require.NotNil(t, errs)
	assert.Equal(t, "max", errs["name"].Tag)
	assert.Equal(t, "5", errs["name"].Param)
	assert.Equal(t, "phone_np", errs["phone"].Tag)
	assert.Equal(t, "bsdate", errs["date_bs"].Tag)
	assert.Equal(t, "numeric_np", errs["items.1.quantity"].Tag)
	_, ok := errs["items.0.quantity"]
	assert.False(t, ok, "devanagari digits are numeric")
}

func TestStructPasses(t *testing.T) {
	v := MustNew()
	errs := v.Struct(sampleForm{Name: "Ok", Phone: "९८४१२३४५६७", Date: "२०८१-०५-३२"})
	assert.Nil(t, errs)
}

func TestStructRule(t *testing.T) {
	v := MustNew()
	v.RegisterStructRule(func(sl validator.StructLevel) {
		line := sl.Current().Interface().(sampleLine)
		if line.Quantity == "0" {
			sl.ReportError(line.Quantity, "quantity", "Quantity", "gt", "0")
		}
	}, sampleLine{})
	errs := v.Struct(sampleForm{Name: "a", Date: "2080-01-01", Lines: []sampleLine{{Quantity: "0"}}})
	require.Contains(t, errs, "items.0.quantity")
	assert.Equal(t, "gt", errs["items.0.quantity"].Tag)
}

func TestTranslate(t *testing.T) {
	errs := FieldErrors{
		"name":  {Tag: "required"},
		"code":  {Tag: "max", Param: "10"},
		"other": {Tag: "unknown_rule"},
	}
	msgs := errs.Translate(i18n.For(i18n.English))
	assert.Equal(t, "This field is required.", msgs["name"])
	assert.Equal(t, "Must be at most 10 characters.", msgs["code"])
	assert.Equal(t, "Invalid value.", msgs["other"])
}

func TestValidBSDate(t *testing.T) {
	assert.True(t, ValidBSDate("2081-04-32"))
	assert.True(t, ValidBSDate("२०८१-०४-०१"))
	assert.False(t, ValidBSDate("2081-4-1"))
	assert.False(t, ValidBSDate("1900-01-01"))
	assert.False(t, ValidBSDate("2081-00-10"))
}
