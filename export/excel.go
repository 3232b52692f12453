// Package export renders collection snapshots as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/opsfloor/mfgops_backend/masters"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// ContentType is the xlsx MIME type for the download response.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Columns derives a stable column order for the records: the key and status
// fields first, then every other observed field alphabetically. Nested
// sub-record fields are skipped.
func Columns(col masters.Collection, records []masters.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for field, value := range rec {
			switch value.(type) {
			case []masters.Record, []any, map[string]any:
				continue
			}
			seen[field] = true
		}
	}

	columns := make([]string, 0, len(seen))
	appendIf := func(field string) {
		if seen[field] {
			columns = append(columns, field)
			delete(seen, field)
		}
	}
	appendIf(col.KeyField)
	appendIf(col.StatusField)

	rest := make([]string, 0, len(seen))
	for field := range seen {
		rest = append(rest, field)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// WriteExcel writes one header row plus one row per record to w.
func WriteExcel(w io.Writer, col masters.Collection, records []masters.Record) error {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	columns := Columns(col, records)
	for i, field := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, field); err != nil {
			return err
		}
	}

	for rowNo, rec := range records {
		for i, field := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNo+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, rec.StringField(field)); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// Filename names the download after the collection.
func Filename(collection string) string {
	return fmt.Sprintf("%s_export.xlsx", collection)
}
