package xlsxcache

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
	"github.com/tiendc/go-deepcopy"
)

// Registry decodes workbook archives on demand and caches the decoded
// documents keyed by archive path. All operations serialize on one
// registry-wide lock, held for the operation's full duration: while a
// document decodes, lookups against every other document wait.
//
// Lookups that return model data return independent copies, so callers
// may mutate results freely and share them across goroutines.
type Registry struct {
	mu     sync.Mutex
	logger *slog.Logger
	books  map[string]*models.Workbook
}

// New returns an empty registry.
func New(opts Options) *Registry {
	return &Registry{
		logger: opts.logger(),
		books:  make(map[string]*models.Workbook),
	}
}

// Open decodes the archive at path and installs the document under that
// path. Opening a path that is already installed does nothing; the
// cached document is served until Close evicts it, even if the file on
// disk has changed. On error the registry is unchanged.
func (r *Registry) Open(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[path]; ok {
		return nil
	}
	book, err := decodeArchive(path, r.logger)
	if err != nil {
		return err
	}
	r.books[path] = book
	r.logger.Debug("workbook opened",
		"path", path,
		"sheets", len(book.Sheets),
		"strings", len(book.Strings),
		"diagnostics", len(book.Diagnostics),
	)
	return nil
}

// Close evicts the document installed under path. Closing a path that
// is not installed does nothing.
func (r *Registry) Close(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[path]; !ok {
		return
	}
	delete(r.books, path)
	r.logger.Debug("workbook closed", "path", path)
}

// Sheet returns an independent copy of the named sheet of the document
// installed under path.
func (r *Registry) Sheet(path, name string) (models.Sheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[path]
	if !ok {
		return nil, &LookupError{Path: path, Err: ErrDocumentNotFound}
	}
	sheet, ok := book.Sheets[name]
	if !ok {
		return nil, &LookupError{Path: path, Target: strconv.Quote(name), Err: ErrSheetNotFound}
	}
	var out models.Sheet
	if err := deepcopy.Copy(&out, sheet); err != nil {
		return nil, fmt.Errorf("copy sheet %q: %w", name, err)
	}
	return out, nil
}

// SharedString returns the document's shared string at index.
func (r *Registry) SharedString(path string, index int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[path]
	if !ok {
		return "", &LookupError{Path: path, Err: ErrDocumentNotFound}
	}
	s, ok := book.Strings[index]
	if !ok {
		return "", &LookupError{Path: path, Target: "index " + strconv.Itoa(index), Err: ErrSharedStringNotFound}
	}
	return s, nil
}

// SheetNames returns the names of the document's decoded sheets in
// lexical order. The slice is freshly built on every call.
func (r *Registry) SheetNames(path string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[path]
	if !ok {
		return nil, &LookupError{Path: path, Err: ErrDocumentNotFound}
	}
	return book.SheetNames(), nil
}

// Diagnostics returns a copy of the non-fatal failures recorded while
// the document was decoded.
func (r *Registry) Diagnostics(path string) ([]models.Diagnostic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[path]
	if !ok {
		return nil, &LookupError{Path: path, Err: ErrDocumentNotFound}
	}
	out := make([]models.Diagnostic, len(book.Diagnostics))
	copy(out, book.Diagnostics)
	return out, nil
}

// Workbook returns an independent copy of the whole decoded document,
// letting export flows take the lock once instead of once per lookup.
func (r *Registry) Workbook(path string) (*models.Workbook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[path]
	if !ok {
		return nil, &LookupError{Path: path, Err: ErrDocumentNotFound}
	}
	out := &models.Workbook{}
	if err := deepcopy.Copy(out, book); err != nil {
		return nil, fmt.Errorf("copy workbook %q: %w", path, err)
	}
	return out, nil
}
