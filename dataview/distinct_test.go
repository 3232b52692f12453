package dataview

import (
	"reflect"
	"testing"

	"github.com/opsfloor/mfgops_backend/masters"
)

func TestDistinctValues(t *testing.T) {
	records := []masters.Record{
		{"city": "Pune"},
		{"city": "Nashik"},
		{"city": "Pune"},
		{"city": ""},
		{"name": "no city"},
	}
	got := DistinctValues(records, "city")
	want := []string{"Nashik", "Pune"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDistinctValuesEmptyInput(t *testing.T) {
	got := DistinctValues(nil, "city")
	if len(got) != 0 {
		t.Fatalf("expected no values, got %v", got)
	}
}

func TestDistinctValuesNestedPath(t *testing.T) {
	records := []masters.Record{
		{"name": "Apex", "branches": []masters.Record{
			{"city": "Chakan"},
			{"city": "Pune"},
		}},
		{"name": "Shakti", "branches": []any{
			map[string]any{"city": "Nashik"},
			map[string]any{"city": "Chakan"},
		}},
		{"name": "No Branches"},
	}
	got := DistinctValues(records, "branches.city")
	want := []string{"Chakan", "Nashik", "Pune"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDistinctValuesScalarUnderNestedPath(t *testing.T) {
	// a scalar where a sub-record is expected is skipped, never a panic
	records := []masters.Record{
		{"branches": "oops"},
	}
	if got := DistinctValues(records, "branches.city"); len(got) != 0 {
		t.Fatalf("expected no values, got %v", got)
	}
}
