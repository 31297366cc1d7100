package xlsxcache

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
	"github.com/tabledata/xlsxcache/pkg/xlsxcache/parser"
)

// decodeArchive runs the full decode pipeline for one workbook archive:
// shared strings first, then the workbook's sheet declarations, then
// every resolvable sheet entry. Only an unreadable container or an
// undecodable workbook entry is fatal; every other failure degrades to
// a diagnostic on the returned document.
func decodeArchive(path string, logger *slog.Logger) (*models.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	d := &decoder{archive: archive, path: path, logger: logger}

	book := &models.Workbook{
		BookName: filepath.Base(path),
		Sheets:   make(map[string]models.Sheet),
	}
	book.Strings = d.sharedStrings()

	refs, err := d.sheetRefs()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		sheet, ok := d.sheet(ref)
		if !ok {
			continue
		}
		if _, dup := book.Sheets[ref.Name]; dup {
			// Two relationship ids declared the same name; the lower id
			// already claimed it.
			continue
		}
		book.Sheets[ref.Name] = sheet
	}

	book.Diagnostics = d.diags
	return book, nil
}

// decoder carries one archive through the decode stages and accumulates
// the diagnostics they produce.
type decoder struct {
	archive *zip.Reader
	path    string
	logger  *slog.Logger
	diags   []models.Diagnostic
}

func (d *decoder) report(diag models.Diagnostic) {
	d.diags = append(d.diags, diag)
	d.logger.Warn("decode diagnostic",
		"path", d.path,
		"entry", diag.Entry,
		"context", diag.Context,
		"reason", diag.Reason,
	)
}

func (d *decoder) reportAll(diags []models.Diagnostic) {
	for _, diag := range diags {
		d.report(diag)
	}
}

// sharedStrings decodes the shared-string table. A workbook without a
// usable table still decodes; its text cells just cannot be resolved.
func (d *decoder) sharedStrings() models.StringTable {
	data, err := parser.ReadEntry(d.archive, parser.SharedStringsEntry)
	if err != nil {
		d.report(models.Diagnostic{Entry: parser.SharedStringsEntry, Reason: err.Error()})
		return make(models.StringTable)
	}
	root, err := parser.ParseTree(data)
	if err != nil {
		d.report(models.Diagnostic{Entry: parser.SharedStringsEntry, Reason: err.Error()})
		return make(models.StringTable)
	}
	table, diags := parser.DecodeSharedStrings(parser.SharedStringsEntry, root)
	d.reportAll(diags)
	return table
}

// sheetRefs decodes the workbook entry into an ordered sheet index.
// Without it no sheet can be located, so failure here is fatal.
func (d *decoder) sheetRefs() ([]parser.SheetRef, error) {
	data, err := parser.ReadEntry(d.archive, parser.WorkbookEntry)
	if err != nil {
		return nil, &DecodeError{Path: d.path, Entry: parser.WorkbookEntry, Err: err}
	}
	root, err := parser.ParseTree(data)
	if err != nil {
		return nil, &DecodeError{Path: d.path, Entry: parser.WorkbookEntry, Err: err}
	}
	refs, diags := parser.DecodeWorkbookIndex(parser.WorkbookEntry, root)
	d.reportAll(diags)
	return refs, nil
}

// sheet decodes one declared sheet. ok is false when the declaration
// could not be resolved to a decodable entry; the failure is recorded
// and the rest of the workbook proceeds.
func (d *decoder) sheet(ref parser.SheetRef) (models.Sheet, bool) {
	entry := ref.EntryName()
	data, err := parser.ReadEntry(d.archive, entry)
	if err != nil {
		d.report(models.Diagnostic{
			Entry:   entry,
			Context: fmt.Sprintf("sheet %q", ref.Name),
			Reason:  err.Error(),
		})
		return nil, false
	}
	root, err := parser.ParseTree(data)
	if err != nil {
		d.report(models.Diagnostic{
			Entry:   entry,
			Context: fmt.Sprintf("sheet %q", ref.Name),
			Reason:  err.Error(),
		})
		return nil, false
	}
	sheet, diags, err := parser.DecodeSheet(entry, root)
	if err != nil {
		d.report(models.Diagnostic{
			Entry:   entry,
			Context: fmt.Sprintf("sheet %q", ref.Name),
			Reason:  err.Error(),
		})
		return nil, false
	}
	d.reportAll(diags)
	return sheet, true
}
