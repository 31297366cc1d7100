// Package parser decodes the XML entries of a spreadsheet archive into
// the in-memory workbook model.
package parser

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
)

// Entry names of the two fixed workbook parts. Sheet entries follow the
// naming convention implemented by SheetRef.EntryName.
const (
	WorkbookEntry      = "workbook.xml"
	SharedStringsEntry = "sharedStrings.xml"
)

// ErrEntryNotFound reports that an archive holds no entry with the
// requested name.
var ErrEntryNotFound = errors.New("entry not found in archive")

// ReadEntry returns the uncompressed bytes of the named entry. The name
// is matched against entry base names with directories ignored, so
// "sharedStrings.xml" finds "xl/sharedStrings.xml" wherever the archive
// nests it. The first match in archive order wins.
func ReadEntry(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if path.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}
