package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
)

// DecodeSharedStrings converts a parsed shared-strings entry into the
// workbook's string table. Each child of the sst root consumes one table
// position in document order; an entry that fails to decode leaves its
// position vacant and is reported as a diagnostic, so the indices of the
// surviving entries still match the references stored in cells.
func DecodeSharedStrings(entry string, root *Node) (models.StringTable, []models.Diagnostic) {
	table := make(models.StringTable)
	if root == nil || root.Name != "sst" {
		return table, []models.Diagnostic{{
			Entry:  entry,
			Reason: "shared-strings entry has no sst root",
		}}
	}
	var diags []models.Diagnostic
	for index, item := range root.Children {
		text, err := decodeStringItem(item)
		if err != nil {
			diags = append(diags, models.Diagnostic{
				Entry:   entry,
				Context: fmt.Sprintf("shared string %d", index),
				Reason:  err.Error(),
			})
			continue
		}
		table[index] = text
	}
	return table, diags
}

// decodeStringItem extracts the text of one string entry. A rich-text
// entry concatenates the text child of every run in document order; a
// plain entry reads its single text child.
func decodeStringItem(item *Node) (string, error) {
	if item.Child("r") == nil {
		t := item.Child("t")
		if t == nil {
			return "", errors.New("string entry has no text child")
		}
		return t.Text, nil
	}
	var b strings.Builder
	for _, run := range item.Children {
		if run.Name != "r" {
			continue
		}
		t := run.Child("t")
		if t == nil {
			return "", errors.New("rich-text run has no text child")
		}
		b.WriteString(t.Text)
	}
	return b.String(), nil
}
