package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
)

// DecodeSheet converts a parsed sheet entry into its row map. Rows keep
// the 1-based index declared in their r attribute; a row whose index is
// missing or unparsable is skipped with a diagnostic. Cells that cannot
// be decoded are dropped silently, so a row survives even when every
// cell in it is unusable. An entry without the worksheet/sheetData
// structure cannot be decoded at all and returns an error.
func DecodeSheet(entry string, root *Node) (models.Sheet, []models.Diagnostic, error) {
	if root == nil || root.Name != "worksheet" {
		return nil, nil, errors.New("sheet entry has no worksheet root")
	}
	data := root.Child("sheetData")
	if data == nil {
		return nil, nil, errors.New("sheet entry has no sheetData")
	}

	sheet := make(models.Sheet)
	var diags []models.Diagnostic
	for _, rowNode := range data.Children {
		if rowNode.Name != "row" {
			continue
		}
		attr, ok := rowNode.Attr["r"]
		index, err := strconv.Atoi(attr)
		if !ok || err != nil {
			diags = append(diags, models.Diagnostic{
				Entry:   entry,
				Context: fmt.Sprintf("row %q", attr),
				Reason:  "row index is missing or not an integer",
			})
			continue
		}
		row := make(models.Row)
		for _, cellNode := range rowNode.Children {
			if cellNode.Name != "c" {
				continue
			}
			cell, column, ok := decodeCell(cellNode)
			if !ok {
				continue
			}
			row[column] = cell
		}
		sheet[index] = row
	}
	return sheet, diags, nil
}

// decodeCell reads one cell node: the text of its value child, the
// column letters of its position attribute, and the kind implied by the
// presence of the type attribute. ok is false when the node has no
// value child or no position attribute.
func decodeCell(n *Node) (models.Cell, string, bool) {
	v := n.Child("v")
	if v == nil {
		return models.Cell{}, "", false
	}
	position, ok := n.Attr["r"]
	if !ok {
		return models.Cell{}, "", false
	}
	kind := models.Number
	if _, typed := n.Attr["t"]; typed {
		kind = models.Text
	}
	return models.Cell{Kind: kind, Raw: v.Text}, columnOf(position), true
}

// columnOf strips every non-letter from a cell position, leaving the
// column reference ("AB7" yields "AB").
func columnOf(position string) string {
	var b strings.Builder
	for _, r := range position {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
