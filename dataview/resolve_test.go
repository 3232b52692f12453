package dataview

import (
	"testing"

	"github.com/opsfloor/mfgops_backend/masters"
)

func TestBuildLookup(t *testing.T) {
	companies := []masters.Record{
		{"id": 1, "name": "Precision Works"},
		{"id": 2, "name": "Apex Industries"},
		{"name": "no id"},
	}
	lookup := BuildLookup(companies, "id", "name")
	if len(lookup) != 2 {
		t.Fatalf("expected 2 entries, got %v", lookup)
	}
	if lookup["1"] != "Precision Works" || lookup["2"] != "Apex Industries" {
		t.Fatalf("unexpected lookup: %v", lookup)
	}
}

func TestResolveForeignDisplay(t *testing.T) {
	customers := []masters.Record{
		{"id": "10", "name": "Apex Gears", "company_id": "1"},
		{"id": "11", "name": "Shakti Forgings", "company_id": "99"},
	}
	lookup := map[string]string{"1": "Precision Works"}

	resolved := ResolveForeignDisplay(customers, "company_id", lookup)
	if got := resolved[0].StringField("company_id"); got != "Precision Works" {
		t.Fatalf("expected resolved label, got %q", got)
	}
	// unmatched ids render as-is
	if got := resolved[1].StringField("company_id"); got != "99" {
		t.Fatalf("unmatched id must stay unchanged, got %q", got)
	}
	// cached input records are never mutated
	if got := customers[0].StringField("company_id"); got != "1" {
		t.Fatalf("input record mutated: %q", got)
	}
}
