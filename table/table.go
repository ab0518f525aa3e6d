// Package table holds the in-memory relational table the search engine
// operates over: an ordered list of named columns, row count N, and
// position-based cell access. A Table is built once (via New or LoadCSV)
// and never mutated afterwards; every downstream package (pli, cache,
// measure, search) assumes this immutability.
package table

import "github.com/pkg/errors"

// ErrColumnCountMismatch is returned by New when rows don't all have the
// same number of cells as there are column names.
var ErrColumnCountMismatch = errors.New("table: row has wrong number of columns")

// Table is an ordered set of named columns over a fixed row count.
// Cell values are opaque strings; equality of values is all the PLI layer
// ever needs.
type Table struct {
	names []string
	cols  [][]string // cols[c][r] = cell value
	rows  int
}

// New builds a Table from column names and row-major data. Every row in
// rows must have len(names) cells.
func New(names []string, rows [][]string) (*Table, error) {
	cols := make([][]string, len(names))
	for c := range cols {
		cols[c] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, errors.Wrapf(ErrColumnCountMismatch, "row %d has %d cells, want %d", r, len(row), len(names))
		}
		for c, v := range row {
			cols[c][r] = v
		}
	}
	return &Table{names: names, cols: cols, rows: len(rows)}, nil
}

// Get returns the cell value at (row, col).
func (t *Table) Get(row, col int) string {
	return t.cols[col][row]
}

// Column returns every value in column col, in row order (read-only; callers
// must not mutate the returned slice).
func (t *Table) Column(col int) []string {
	return t.cols[col]
}

// RowCount returns N, the number of rows.
func (t *Table) RowCount() int { return t.rows }

// ColCount returns the number of columns.
func (t *Table) ColCount() int { return len(t.names) }

// ColumnName returns the name of column c.
func (t *Table) ColumnName(c int) string { return t.names[c] }

// ColumnNames returns all column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
