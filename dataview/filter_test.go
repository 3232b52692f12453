package dataview

import (
	"testing"
	"time"

	"github.com/opsfloor/mfgops_backend/masters"
)

func sampleRecords() []masters.Record {
	return []masters.Record{
		{"id": "1", "name": "Apex Gears", "city": "Pune", "current_status": "Active", "created_at": "2026-03-01"},
		{"id": "2", "name": "Shakti Forgings", "city": "Nashik", "current_status": "Inactive", "created_at": "2026-03-15"},
		{"id": "3", "name": "Apex Castings", "city": "Pune", "current_status": "Active", "created_at": "2026-04-02"},
	}
}

func TestFilterIdentityWhenUnset(t *testing.T) {
	records := sampleRecords()
	got := Filter(records, Predicates{})
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].StringField("id") != records[i].StringField("id") {
			t.Fatalf("record %d changed under empty predicates", i)
		}
	}
}

func TestFilterSearch(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		fields  []string
		wantIds []string
	}{
		{"case-insensitive match", "apex", []string{"name"}, []string{"1", "3"}},
		{"no match", "bharat", []string{"name"}, []string{}},
		{"second field", "nashik", []string{"name", "city"}, []string{"2"}},
		{"blank query matches all", "  ", []string{"name"}, []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleRecords(), Predicates{Search: &Search{Fields: tt.fields, Query: tt.query}})
			assertIds(t, got, tt.wantIds)
		})
	}
}

func TestFilterEquals(t *testing.T) {
	got := Filter(sampleRecords(), Predicates{Equals: map[string]string{"current_status": "Active"}})
	assertIds(t, got, []string{"1", "3"})

	got = Filter(sampleRecords(), Predicates{Equals: map[string]string{"current_status": "Active", "city": "Nashik"}})
	assertIds(t, got, []string{})
}

func TestFilterDateRange(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	got := Filter(sampleRecords(), Predicates{DateRange: &DateRange{Field: "created_at", From: &from, To: &to}})
	assertIds(t, got, []string{"2"})

	// open-ended lower bound
	got = Filter(sampleRecords(), Predicates{DateRange: &DateRange{Field: "created_at", To: &to}})
	assertIds(t, got, []string{"1", "2"})

	// records without a parseable date never match a date predicate
	records := append(sampleRecords(), masters.Record{"id": "4", "name": "No Date"})
	got = Filter(records, Predicates{DateRange: &DateRange{Field: "created_at", From: &from}})
	assertIds(t, got, []string{"2", "3"})
}

func TestFilterConjunction(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := Filter(sampleRecords(), Predicates{
		Search: &Search{Fields: []string{"name"}, Query: "apex"},
		Equals: map[string]string{"city": "Pune"},
		DateRange: &DateRange{
			Field: "created_at",
			From:  &from,
		},
	})
	assertIds(t, got, []string{"1", "3"})
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	Filter(records, Predicates{Equals: map[string]string{"city": "Pune"}})
	if len(records) != 3 {
		t.Fatalf("input slice length changed: %d", len(records))
	}
	if records[1].StringField("city") != "Nashik" {
		t.Fatal("input record mutated")
	}
}

func TestWhere(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := Where(items, func(n int) bool { return n%2 == 0 })
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("unexpected result: %v", got)
	}
}

func assertIds(t *testing.T, records []masters.Record, want []string) {
	t.Helper()
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, id := range want {
		if got := records[i].StringField("id"); got != id {
			t.Fatalf("record %d: expected id %s, got %s", i, id, got)
		}
	}
}
