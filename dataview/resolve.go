package dataview

import (
	"github.com/opsfloor/mfgops_backend/masters"
)

// BuildLookup indexes a separately-fetched collection for display joins:
// key field value → label field value.
func BuildLookup(records []masters.Record, keyField, labelField string) map[string]string {
	lookup := make(map[string]string, len(records))
	for _, rec := range records {
		key := rec.StringField(keyField)
		if key == "" {
			continue
		}
		lookup[key] = rec.StringField(labelField)
	}
	return lookup
}

// ResolveForeignDisplay replaces field's id-shaped value with the label from
// lookup, leaving records without a match unchanged. The two collections are
// cached independently, so the lookup can lag the records (and vice versa);
// an unresolved id simply renders as-is. Input records are not mutated.
func ResolveForeignDisplay(records []masters.Record, field string, lookup map[string]string) []masters.Record {
	out := make([]masters.Record, 0, len(records))
	for _, rec := range records {
		if label, ok := lookup[rec.StringField(field)]; ok && label != "" {
			copied := rec.Clone()
			copied[field] = label
			out = append(out, copied)
			continue
		}
		out = append(out, rec)
	}
	return out
}
