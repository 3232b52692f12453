package dataview

import (
	"testing"

	"github.com/opsfloor/mfgops_backend/masters"
)

func TestGroupCounts(t *testing.T) {
	records := []masters.Record{
		{"current_status": "Active"},
		{"current_status": "Inactive"},
	}
	counts := GroupCounts(records, "current_status", nil)
	want := map[string]int{"all": 2, "Active": 1, "Inactive": 1}
	assertCounts(t, counts, want)
}

func TestGroupCountsEmpty(t *testing.T) {
	counts := GroupCounts(nil, "current_status", nil)
	if len(counts) != 1 {
		t.Fatalf("expected only the all bucket, got %v", counts)
	}
	if counts[AllBucket] != 0 {
		t.Fatalf("all bucket must be present and zero, got %d", counts[AllBucket])
	}
}

func TestGroupCountsExcludesFromAll(t *testing.T) {
	records := []masters.Record{
		{"current_status": "New"},
		{"current_status": "Won"},
		{"current_status": "Rejected"},
		{"current_status": "Pending"},
		{"current_status": "Pending"},
	}
	counts := GroupCounts(records, "current_status", []string{"Rejected", "Pending"})

	// excluded statuses keep their own buckets but stay out of "all"
	want := map[string]int{"all": 2, "New": 1, "Won": 1, "Rejected": 1, "Pending": 2}
	assertCounts(t, counts, want)
}

func TestGroupCountsMissingStatusField(t *testing.T) {
	records := []masters.Record{
		{"current_status": "Active"},
		{"name": "no status"},
	}
	counts := GroupCounts(records, "current_status", nil)
	if counts[""] != 1 {
		t.Fatalf("records without the field group under the empty key, got %v", counts)
	}
	if counts[AllBucket] != 2 {
		t.Fatalf("all bucket should count every record, got %d", counts[AllBucket])
	}
}

func assertCounts(t *testing.T, got, want map[string]int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for key, n := range want {
		if got[key] != n {
			t.Fatalf("bucket %q: expected %d, got %d (full: %v)", key, n, got[key], got)
		}
	}
}
