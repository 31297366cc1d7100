// Package output serializes decoded workbooks for export.
package output

import (
	"encoding/json"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
)

// ToJSON serializes a decoded workbook. Sheet row indices become JSON
// object keys, so sparse sheets stay sparse in the output.
func ToJSON(book *models.Workbook, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(book, "", "  ")
	}
	return json.Marshal(book)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet models.Sheet, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(sheet, "", "  ")
	}
	return json.Marshal(sheet)
}
