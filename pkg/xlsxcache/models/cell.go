// Package models defines the data structures produced by workbook decoding.
package models

import (
	"fmt"
	"strconv"
)

// CellKind tells how a cell's raw payload is interpreted.
type CellKind int

const (
	// Number marks a cell whose Raw field holds the literal value text
	// from the sheet entry. The text is kept verbatim and is not
	// required to parse as a number.
	Number CellKind = iota
	// Text marks a cell whose Raw field holds a decimal index into the
	// owning workbook's shared-string table.
	Text
)

// String returns the kind name for logs and error messages.
func (k CellKind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cell represents a single decoded cell.
type Cell struct {
	// Kind tells whether Raw is a literal or a shared-string index.
	Kind CellKind `json:"kind"`
	// Raw is the verbatim value text read from the sheet entry.
	Raw string `json:"raw"`
}

// Value resolves the cell to display text. Number cells return Raw
// unchanged; Text cells are resolved through the workbook's
// shared-string table.
func (c Cell) Value(table StringTable) (string, error) {
	if c.Kind != Text {
		return c.Raw, nil
	}
	index, err := strconv.Atoi(c.Raw)
	if err != nil {
		return "", fmt.Errorf("cell payload %q is not a shared-string index", c.Raw)
	}
	s, ok := table[index]
	if !ok {
		return "", fmt.Errorf("shared string %d not present in table", index)
	}
	return s, nil
}
