package parser

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
)

// SheetRef pairs a declared sheet name with its numeric relationship id.
type SheetRef struct {
	// Name is the sheet name declared in the workbook entry.
	Name string
	// ID is the decimal suffix of the declaration's relationship id.
	ID int
}

// EntryName returns the archive entry expected to hold the sheet's
// data, following the fixed "sheet<id>.xml" convention. The convention
// assumes sheet entries are numbered after their relationship ids, which
// holds for straightforwardly produced archives; one whose relationship
// targets diverge from that numbering will not resolve.
func (r SheetRef) EntryName() string {
	return "sheet" + strconv.Itoa(r.ID) + ".xml"
}

// Relationship ids are the fixed prefix "rId" followed by a decimal
// integer.
const relIDPrefix = "rId"

// DecodeWorkbookIndex reads the sheet declarations of a parsed workbook
// entry: each declaration's name attribute paired with the numeric
// suffix of its relationship id, ordered by ascending id. When two
// declarations share an id the first wins. A declaration that is
// missing either attribute or carries an unparsable id is skipped with
// a diagnostic.
func DecodeWorkbookIndex(entry string, root *Node) ([]SheetRef, []models.Diagnostic) {
	if root == nil || root.Name != "workbook" {
		return nil, []models.Diagnostic{{
			Entry:  entry,
			Reason: "workbook entry has no workbook root",
		}}
	}
	sheets := root.Child("sheets")
	if sheets == nil {
		return nil, []models.Diagnostic{{
			Entry:  entry,
			Reason: "workbook entry declares no sheets",
		}}
	}

	var diags []models.Diagnostic
	byID := make(map[int]string)
	ids := make([]int, 0, len(sheets.Children))
	for i, decl := range sheets.Children {
		name, hasName := decl.Attr["name"]
		rid, hasID := decl.Attr["id"]
		if !hasName || !hasID {
			diags = append(diags, models.Diagnostic{
				Entry:   entry,
				Context: fmt.Sprintf("sheet declaration %d", i),
				Reason:  "declaration is missing its name or relationship id",
			})
			continue
		}
		id, err := parseRelID(rid)
		if err != nil {
			diags = append(diags, models.Diagnostic{
				Entry:   entry,
				Context: fmt.Sprintf("sheet declaration %d (%q)", i, name),
				Reason:  err.Error(),
			})
			continue
		}
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = name
		ids = append(ids, id)
	}

	sort.Ints(ids)
	refs := make([]SheetRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, SheetRef{Name: byID[id], ID: id})
	}
	return refs, diags
}

func parseRelID(rid string) (int, error) {
	if len(rid) <= len(relIDPrefix) {
		return 0, fmt.Errorf("relationship id %q is too short", rid)
	}
	id, err := strconv.Atoi(rid[len(relIDPrefix):])
	if err != nil {
		return 0, fmt.Errorf("relationship id %q has no numeric suffix", rid)
	}
	return id, nil
}
