package crud

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
)

// BindTagged sets the string fields of the struct pointed to by dst from
// values, keyed by their `form` tag. Input is trimmed and NFC-composed.
func BindTagged(dst any, values url.Values) {
	eachField(dst, func(name string, v reflect.Value) {
		v.SetString(i18n.Clean(values.Get(name)))
	})
}

// FillTagged sets the string fields of dst from rec. Nested references such
// as {"id": 3, "name": "..."} contribute their id.
func FillTagged(dst any, rec backend.Record) {
	eachField(dst, func(name string, v reflect.Value) {
		switch raw := rec.Value(name).(type) {
		case map[string]any:
			v.SetString(strconv.FormatInt(backend.Record(raw).ID(), 10))
		default:
			v.SetString(rec.String(name))
		}
	})
}

// ValuesOf returns the string fields of src keyed by their `form` tag.
func ValuesOf(src any) map[string]string {
	out := make(map[string]string)
	eachField(src, func(name string, v reflect.Value) {
		out[name] = v.String()
	})
	return out
}

// OptionalInt converts a lookup id field for a JSON payload; empty input is
// sent as null.
func OptionalInt(s string) any {
	s = i18n.CleanNumber(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return n
}

// OptionalString sends empty strings as null.
func OptionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func eachField(ptr any, fn func(name string, v reflect.Value)) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Type.Kind() != reflect.String {
			continue
		}
		name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		fn(name, rv.Field(i))
	}
}
