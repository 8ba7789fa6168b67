package core

// Table is a named, ordered tabular value handed to sinks.
//
// Rows may be shorter than Columns: a missing trailing cell means the row has no
// value for that column (a wide report row with fewer mentees than the widest row).
// Rectangular formats pad such rows with empty cells; keyed formats omit them.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Cell returns the value at row r, column c and whether the row carries it.
func (t Table) Cell(r, c int) (string, bool) {
	row := t.Rows[r]
	if c >= len(row) {
		return "", false
	}
	return row[c], true
}

// PaddedRow returns row r extended with empty cells to len(Columns).
func (t Table) PaddedRow(r int) []string {
	row := t.Rows[r]
	if len(row) >= len(t.Columns) {
		return row
	}
	padded := make([]string, len(t.Columns))
	copy(padded, row)
	return padded
}
