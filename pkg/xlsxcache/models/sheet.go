package models

// Row maps a column reference ("A", "B", ..., "AA") to the cell stored
// there. When a row declares two cells for the same column, the later
// one wins.
type Row map[string]Cell

// Sheet maps a 1-based row index to its decoded row. Only rows the
// sheet entry declares are present; gaps in the numbering stay absent
// rather than empty.
type Sheet map[int]Row
