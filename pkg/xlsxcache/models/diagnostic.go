package models

// Diagnostic records one non-fatal failure encountered while decoding a
// workbook. The decode continues past the failing unit; the diagnostic
// is the only trace it leaves on the document.
type Diagnostic struct {
	// Entry is the archive entry being decoded when the failure occurred.
	Entry string `json:"entry"`
	// Context narrows the failure to an item inside the entry, such as a
	// shared-string position or a row index. Empty for entry-level
	// failures.
	Context string `json:"context,omitempty"`
	// Reason describes what went wrong.
	Reason string `json:"reason"`
}
