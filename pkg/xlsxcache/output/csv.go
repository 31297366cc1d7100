package output

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
)

// WriteSheetCSV renders a sheet as CSV, rows in ascending index order
// and columns in spreadsheet order (A..Z before AA). Absent cells
// become empty fields, so sparse rows line up under a common column
// set. Text cells are resolved through the given string table; a cell
// whose reference cannot be resolved falls back to its raw payload.
func WriteSheetCSV(w io.Writer, sheet models.Sheet, table models.StringTable) error {
	indices := make([]int, 0, len(sheet))
	for index := range sheet {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	columns := sheetColumns(sheet)

	cw := csv.NewWriter(w)
	record := make([]string, len(columns))
	for _, index := range indices {
		row := sheet[index]
		for i, column := range columns {
			record[i] = ""
			cell, ok := row[column]
			if !ok {
				continue
			}
			text, err := cell.Value(table)
			if err != nil {
				text = cell.Raw
			}
			record[i] = text
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// sheetColumns returns every column reference appearing anywhere in the
// sheet, in spreadsheet order.
func sheetColumns(sheet models.Sheet) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range sheet {
		for column := range row {
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}
	sort.Slice(columns, func(i, j int) bool {
		return columnLess(columns[i], columns[j])
	})
	return columns
}

// columnLess orders column references the way a sheet lays them out:
// shorter references first, then lexically, so "Z" sorts before "AA".
func columnLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
