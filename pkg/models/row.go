package models

// Row is one record from the upstream table, accessed by position
type Row []string

// Cell returns the value at index i, or "" when the row is shorter.
// Sheets drops trailing empty cells, so short rows are normal.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}
