package masters

import (
	"fmt"
)

// Record is a master record as it travels between the backing store, the
// cache and the console: a bag of fields keyed by column name. Shapes are
// collection-dependent and not enforced here; validation belongs to the
// form/handler that produced the record.
type Record map[string]any

// StringField returns the field rendered as a string ("" when absent/nil).
func (r Record) StringField(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// Id returns the record's identity under the collection's key field.
func (r Record) Id(keyField string) string {
	return r.StringField(keyField)
}

// Clone returns a shallow copy; derived views must not mutate cached records.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func CloneAll(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out
}
