package xlsxcache

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
)

const (
	twoSheetWorkbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="sheet" sheetId="1" r:id="rId1"/>
    <sheet name="2sheetOrNot2sheet" sheetId="2" r:id="rId2"/>
  </sheets>
</workbook>`

	testSharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2">
  <si><t>TestColumn</t></si>
  <si><t>row 1</t></si>
</sst>`

	testSheet1XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c></row>
    <row r="2"><c r="A2" t="s"><v>1</v></c><c r="B2"><v>42</v></c></row>
  </sheetData>
</worksheet>`

	testSheet2XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1"><v>7</v></c></row>
  </sheetData>
</worksheet>`
)

// writeArchive zips the given entries into a file under a fresh temp
// directory and returns its path.
func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

// buildTwoSheetBook assembles a workbook with two sheets whose
// relationship ids follow the sheet entry numbering.
func buildTwoSheetBook(t *testing.T) string {
	t.Helper()
	return writeArchive(t, map[string]string{
		"xl/workbook.xml":          twoSheetWorkbookXML,
		"xl/sharedStrings.xml":     testSharedStringsXML,
		"xl/worksheets/sheet1.xml": testSheet1XML,
		"xl/worksheets/sheet2.xml": testSheet2XML,
	})
}

func TestDecodeTwoSheetBook(t *testing.T) {
	path := buildTwoSheetBook(t)
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	sheet, err := r.Sheet(path, "sheet")
	require.NoError(t, err)
	assert.Equal(t, "TestColumn", resolve(t, r, path, sheet[1]["A"]))
	assert.Equal(t, "row 1", resolve(t, r, path, sheet[2]["A"]))

	second, err := r.Sheet(path, "2sheetOrNot2sheet")
	require.NoError(t, err)
	assert.Equal(t, models.Cell{Kind: models.Number, Raw: "7"}, second[1]["A"])

	diags, err := r.Diagnostics(path)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestDecodeWithoutSharedStrings(t *testing.T) {
	// A workbook with no shared-strings entry still decodes; only the
	// string table degrades to empty.
	path := writeArchive(t, map[string]string{
		"xl/workbook.xml":          twoSheetWorkbookXML,
		"xl/worksheets/sheet1.xml": testSheet1XML,
		"xl/worksheets/sheet2.xml": testSheet2XML,
	})
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	names, err := r.SheetNames(path)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	// Text cells survive with their unresolved payloads.
	sheet, err := r.Sheet(path, "sheet")
	require.NoError(t, err)
	assert.Equal(t, models.Cell{Kind: models.Text, Raw: "0"}, sheet[1]["A"])

	_, err = r.SharedString(path, 0)
	assert.ErrorIs(t, err, ErrSharedStringNotFound)

	diags, err := r.Diagnostics(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "sharedStrings.xml", diags[0].Entry)
}

func TestDecodeMissingWorkbookEntryFatal(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"xl/sharedStrings.xml":     testSharedStringsXML,
		"xl/worksheets/sheet1.xml": testSheet1XML,
	})
	r := New(Options{Logger: testLogger()})

	err := r.Open(path)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "workbook.xml", decodeErr.Entry)

	_, err = r.SheetNames(path)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDecodeMalformedWorkbookEntryFatal(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"xl/workbook.xml":          "<workbook><sheets>",
		"xl/worksheets/sheet1.xml": testSheet1XML,
	})
	r := New(Options{Logger: testLogger()})

	err := r.Open(path)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "workbook.xml", decodeErr.Entry)
}

func TestDecodeCorruptContainerFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-zip.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("this is not an archive"), 0644))
	r := New(Options{Logger: testLogger()})

	err := r.Open(path)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Empty(t, decodeErr.Entry)
}

func TestDecodeMissingSheetEntrySkipped(t *testing.T) {
	// The workbook declares two sheets but only one entry exists; the
	// missing one is dropped with a diagnostic and the rest decodes.
	path := writeArchive(t, map[string]string{
		"xl/workbook.xml":          twoSheetWorkbookXML,
		"xl/sharedStrings.xml":     testSharedStringsXML,
		"xl/worksheets/sheet1.xml": testSheet1XML,
	})
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	names, err := r.SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sheet"}, names)

	diags, err := r.Diagnostics(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "sheet2.xml", diags[0].Entry)
}

func TestDecodeMalformedSheetEntrySkipped(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"xl/workbook.xml":          twoSheetWorkbookXML,
		"xl/sharedStrings.xml":     testSharedStringsXML,
		"xl/worksheets/sheet1.xml": testSheet1XML,
		"xl/worksheets/sheet2.xml": "<worksheet><cols/></worksheet>",
	})
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	names, err := r.SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sheet"}, names)

	diags, err := r.Diagnostics(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "sheet2.xml", diags[0].Entry)
	assert.Contains(t, diags[0].Reason, "sheetData")
}

func TestDecodeWorkbookWithoutSheetDeclarations(t *testing.T) {
	// A structurally odd workbook entry is non-fatal: the document
	// installs with zero sheets and a diagnostic.
	path := writeArchive(t, map[string]string{
		"xl/workbook.xml":      "<workbook><bookViews/></workbook>",
		"xl/sharedStrings.xml": testSharedStringsXML,
	})
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	names, err := r.SheetNames(path)
	require.NoError(t, err)
	assert.Empty(t, names)

	// The string table is still served.
	s, err := r.SharedString(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "TestColumn", s)

	diags, err := r.Diagnostics(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "workbook.xml", diags[0].Entry)
}

func TestDecodeSkippedSharedStringKeepsIndices(t *testing.T) {
	malformedSST := `<sst>
  <si><t>first</t></si>
  <si><phoneticPr/></si>
  <si><t>third</t></si>
</sst>`
	path := writeArchive(t, map[string]string{
		"xl/workbook.xml":          twoSheetWorkbookXML,
		"xl/sharedStrings.xml":     malformedSST,
		"xl/worksheets/sheet1.xml": testSheet1XML,
		"xl/worksheets/sheet2.xml": testSheet2XML,
	})
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	s, err := r.SharedString(path, 2)
	require.NoError(t, err)
	assert.Equal(t, "third", s)

	_, err = r.SharedString(path, 1)
	assert.ErrorIs(t, err, ErrSharedStringNotFound)

	diags, err := r.Diagnostics(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "sharedStrings.xml", diags[0].Entry)
	assert.Equal(t, "shared string 1", diags[0].Context)
}

func TestDecodeDeepEntryNesting(t *testing.T) {
	// Entry lookup goes by base name, so unconventional directory
	// layouts still resolve.
	path := writeArchive(t, map[string]string{
		"weird/place/workbook.xml":  twoSheetWorkbookXML,
		"other/sharedStrings.xml":   testSharedStringsXML,
		"a/b/c/sheet1.xml":          testSheet1XML,
		"somewhere/else/sheet2.xml": testSheet2XML,
	})
	r := New(Options{Logger: testLogger()})
	require.NoError(t, r.Open(path))

	names, err := r.SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2sheetOrNot2sheet", "sheet"}, names)
}
