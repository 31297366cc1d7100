package models

import "sort"

// StringTable holds a workbook's shared strings keyed by the zero-based
// position of each entry in the shared-strings part. Positions whose
// entry failed to decode are absent.
type StringTable map[int]string

// Workbook represents everything decoded from one spreadsheet archive.
type Workbook struct {
	// BookName is the archive file name (no path).
	BookName string `json:"book_name"`
	// Sheets maps sheet name to decoded sheet.
	Sheets map[string]Sheet `json:"sheets"`
	// Strings is the shared-string table referenced by Text cells.
	Strings StringTable `json:"strings,omitempty"`
	// Diagnostics lists non-fatal failures recorded while decoding, in
	// the order they occurred.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// SheetNames returns the decoded sheet names in lexical order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for name := range w.Sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
