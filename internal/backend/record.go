package backend

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a server-defined entity as decoded from JSON. Numbers are kept as
// json.Number so identifiers survive untouched.
type Record map[string]any

// Value resolves a dotted path such as "receiver.name".
func (r Record) Value(path string) any {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// String renders the value at path for display.
func (r Record) String(path string) string {
	return stringify(r.Value(path))
}

// Int returns the value at path as an integer, or 0.
func (r Record) Int(path string) int64 {
	switch v := r.Value(path).(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return n
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case map[string]any:
		// Nested references such as {"id": 3, "name": "..."}.
		return Record(v).Int("id")
	}
	return 0
}

// ID returns the numeric identifier.
func (r Record) ID() int64 {
	return r.Int("id")
}

// Status returns the status flag.
func (r Record) Status() string {
	return r.String("status")
}

// Records returns the nested list at path as records.
func (r Record) Records(path string) []Record {
	list, ok := r.Value(path).([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if m, ok := asMap(item); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case map[string]any:
		for _, key := range []string{"name", "full_name", "title", "id"} {
			if s := stringify(t[key]); s != "" {
				return s
			}
		}
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Page is one page of a paginated collection.
type Page struct {
	Items    []Record
	Count    int
	Next     string
	Previous string
}
