// Package dataview holds the pure helpers behind the console's list pages:
// conjunctive filtering, status-tab counts, distinct values for dropdowns and
// foreign-key display joins. Everything here is synchronous, idempotent and
// never mutates its input.
package dataview

import (
	"strings"
	"time"

	"github.com/opsfloor/mfgops_backend/masters"
)

// Search matches a case-insensitive substring across a fixed field list.
type Search struct {
	Fields []string
	Query  string
}

// DateRange bounds a date-valued field. Nil ends are open.
type DateRange struct {
	Field string
	From  *time.Time
	To    *time.Time
}

// Predicates is one page's active filter state. Every unset member means
// "no constraint"; there are no sentinel values. All predicates are ANDed.
type Predicates struct {
	Search    *Search
	Equals    map[string]string
	DateRange *DateRange
}

// Filter returns the subsequence of records satisfying every active
// predicate. With all predicates unset the input is returned unchanged.
func Filter(records []masters.Record, preds Predicates) []masters.Record {
	if preds.Search == nil && len(preds.Equals) == 0 && preds.DateRange == nil {
		return records
	}

	out := make([]masters.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec masters.Record, preds Predicates) bool {
	if preds.Search != nil && strings.TrimSpace(preds.Search.Query) != "" {
		query := strings.ToLower(preds.Search.Query)
		found := false
		for _, field := range preds.Search.Fields {
			if strings.Contains(strings.ToLower(rec.StringField(field)), query) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for field, want := range preds.Equals {
		if rec.StringField(field) != want {
			return false
		}
	}

	if preds.DateRange != nil {
		t, ok := fieldTime(rec, preds.DateRange.Field)
		if !ok {
			return false
		}
		if preds.DateRange.From != nil && t.Before(*preds.DateRange.From) {
			return false
		}
		if preds.DateRange.To != nil && t.After(*preds.DateRange.To) {
			return false
		}
	}

	return true
}

// fieldTime reads a date-valued field; records from MySQL carry time.Time,
// records from JSON carry RFC3339 or plain-date strings.
func fieldTime(rec masters.Record, field string) (time.Time, bool) {
	switch v := rec[field].(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Where is the typed counterpart of Filter for locally-persisted entities.
func Where[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
