package xlsxcache

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound indicates the archive path has never been opened,
// or has been closed.
var ErrDocumentNotFound = errors.New("document not found")

// ErrSheetNotFound indicates the document holds no sheet with the
// requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSharedStringNotFound indicates the document's string table holds
// no entry at the requested index.
var ErrSharedStringNotFound = errors.New("shared string not found")

// LookupError represents a failed registry lookup.
type LookupError struct {
	Path   string // archive path the lookup addressed
	Target string // sheet name or string index inside the document, if any
	Err    error  // sentinel classifying the failure
}

func (e *LookupError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Path)
	}
	return fmt.Sprintf("%v: %s in %q", e.Err, e.Target, e.Path)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// DecodeError represents a failure that aborted decoding of a workbook
// archive: the container could not be read, or the workbook entry that
// indexes the sheets could not be decoded.
type DecodeError struct {
	Path  string // archive path being decoded
	Entry string // archive entry involved, empty when the container itself failed
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("decode workbook %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode workbook %q: entry %s: %v", e.Path, e.Entry, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
