package dataview

import (
	"sort"
	"strings"

	"github.com/opsfloor/mfgops_backend/masters"
)

// DistinctValues returns the sorted set of unique non-empty values observed
// under path. A dotted path descends into nested array-of-object fields
// ("branches.name" collects every branch name across all customers).
// Missing or oddly-shaped fields are skipped, never an error.
func DistinctValues(records []masters.Record, path string) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		collect(rec, strings.Split(path, "."), seen)
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func collect(rec masters.Record, path []string, seen map[string]bool) {
	if len(path) == 0 {
		return
	}
	v, ok := rec[path[0]]
	if !ok || v == nil {
		return
	}

	if len(path) == 1 {
		s := rec.StringField(path[0])
		if strings.TrimSpace(s) != "" {
			seen[s] = true
		}
		return
	}

	for _, child := range childRecords(v) {
		collect(child, path[1:], seen)
	}
}

func childRecords(v any) []masters.Record {
	switch vv := v.(type) {
	case []masters.Record:
		return vv
	case masters.Record:
		return []masters.Record{vv}
	case map[string]any:
		return []masters.Record{masters.Record(vv)}
	case []any:
		out := make([]masters.Record, 0, len(vv))
		for _, item := range vv {
			if m, ok := item.(map[string]any); ok {
				out = append(out, masters.Record(m))
			}
		}
		return out
	default:
		return nil
	}
}
