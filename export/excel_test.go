package export

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/opsfloor/mfgops_backend/masters"
	"github.com/xuri/excelize/v2"
)

func TestColumnsOrder(t *testing.T) {
	col := masters.Collection{Name: "customer", KeyField: "id", StatusField: "current_status"}
	records := []masters.Record{
		{"id": "1", "name": "Apex", "current_status": "Active", "city": "Pune"},
		{"id": "2", "name": "Shakti", "current_status": "Inactive", "email": "x@y.example"},
		{"id": "3", "branches": []masters.Record{{"name": "nested"}}},
	}

	got := Columns(col, records)
	// key and status first, the rest alphabetical, nested fields dropped
	want := []string{"id", "current_status", "city", "email", "name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWriteExcelRoundTrip(t *testing.T) {
	col := masters.Collection{Name: "purchase", KeyField: "id", StatusField: "current_status"}
	records := []masters.Record{
		{"id": "1", "purchase_no": "PUR-0001", "current_status": "Ordered"},
		{"id": "2", "purchase_no": "PUR-0002", "current_status": "Received"},
	}

	var buf bytes.Buffer
	if err := WriteExcel(&buf, col, records); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"id", "current_status", "purchase_no"}) {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "PUR-0001" || rows[2][2] != "PUR-0002" {
		t.Fatalf("unexpected data rows: %v", rows[1:])
	}
}

func TestWriteExcelEmptyCollection(t *testing.T) {
	col := masters.Collection{Name: "purchase", KeyField: "id"}

	var buf bytes.Buffer
	if err := WriteExcel(&buf, col, nil); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a workbook even with no records")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("customer"); got != "customer_export.xlsx" {
		t.Fatalf("unexpected filename: %s", got)
	}
}
