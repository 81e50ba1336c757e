package data

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Table is an immutable column-oriented dataset. Cells keep their CSV text
// form so a table read back from disk is identical to the one written.
type Table struct {
	columns []string
	cells   map[string][]string
	rows    int
}

// NewTable builds a table from a header and row-major records.
func NewTable(columns []string, records [][]string) (*Table, error) {
	t := &Table{
		columns: slices.Clone(columns),
		cells:   make(map[string][]string, len(columns)),
		rows:    len(records),
	}
	for _, c := range columns {
		if _, dup := t.cells[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.cells[c] = make([]string, len(records))
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("row %d: %d fields, want %d: %w", i+1, len(rec), len(columns), ErrLengthMismatch)
		}
		for j, c := range columns {
			t.cells[c][i] = rec[j]
		}
	}
	return t, nil
}

func (t *Table) Columns() []string { return slices.Clone(t.columns) }

func (t *Table) Len() int { return t.rows }

func (t *Table) Has(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// Records returns the rows in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, t.rows)
	for i := range out {
		rec := make([]string, len(t.columns))
		for j, c := range t.columns {
			rec[j] = t.cells[c][i]
		}
		out[i] = rec
	}
	return out
}

func (t *Table) Strings(name string) ([]string, error) {
	col, ok := t.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return slices.Clone(col), nil
}

// Bools parses a boolean column. Both Go ("true") and pandas ("True") spellings
// are accepted, as are 0/1.
func (t *Table) Bools(name string) ([]bool, error) {
	col, ok := t.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([]bool, len(col))
	for i, s := range col {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q is not boolean", ErrInvalidValue, name, i+1, s)
		}
		out[i] = b
	}
	return out, nil
}

func (t *Table) Floats(name string) ([]float64, error) {
	col, ok := t.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([]float64, len(col))
	for i, s := range col {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q is not numeric", ErrInvalidValue, name, i+1, s)
		}
		out[i] = v
	}
	return out, nil
}

// WithStrings returns a copy of t with the column set. A new column is
// appended after the existing ones.
func (t *Table) WithStrings(name string, vals []string) (*Table, error) {
	if len(vals) != t.rows {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows: %w", name, len(vals), t.rows, ErrLengthMismatch)
	}
	out := t.clone()
	if !out.Has(name) {
		out.columns = append(out.columns, name)
	}
	out.cells[name] = slices.Clone(vals)
	return out, nil
}

func (t *Table) WithBools(name string, vals []bool) (*Table, error) {
	s := make([]string, len(vals))
	for i, b := range vals {
		s[i] = strconv.FormatBool(b)
	}
	return t.WithStrings(name, s)
}

// WithFloats stores values with the shortest representation that parses
// back to the same float64.
func (t *Table) WithFloats(name string, vals []float64) (*Table, error) {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = FormatFloat(v)
	}
	return t.WithStrings(name, s)
}

func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Without drops the named columns.
func (t *Table) Without(names ...string) (*Table, error) {
	out := t.clone()
	for _, n := range names {
		if !out.Has(n) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
		delete(out.cells, n)
		out.columns = slices.DeleteFunc(out.columns, func(c string) bool { return c == n })
	}
	return out, nil
}

// Rename returns a copy with columns renamed per names (old to new), keeping
// their positions. Renames apply together, so two columns may swap names.
func (t *Table) Rename(names map[string]string) (*Table, error) {
	for from := range names {
		if !t.Has(from) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, from)
		}
	}
	out := &Table{columns: make([]string, len(t.columns)), cells: make(map[string][]string, len(t.cells)), rows: t.rows}
	for i, c := range t.columns {
		to, ok := names[c]
		if !ok {
			to = c
		}
		if _, dup := out.cells[to]; dup {
			return nil, fmt.Errorf("duplicate column %q", to)
		}
		out.columns[i] = to
		out.cells[to] = t.cells[c]
	}
	return out, nil
}

// Select returns a copy whose columns are first the given ones, in order,
// followed by the remaining columns in their current order.
func (t *Table) Select(first ...string) (*Table, error) {
	for _, n := range first {
		if !t.Has(n) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
	}
	out := t.clone()
	cols := slices.Clone(first)
	for _, c := range t.columns {
		if !slices.Contains(first, c) {
			cols = append(cols, c)
		}
	}
	out.columns = cols
	return out, nil
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > t.rows {
		n = t.rows
	}
	out := &Table{columns: slices.Clone(t.columns), cells: make(map[string][]string, len(t.cells)), rows: n}
	for c, v := range t.cells {
		out.cells[c] = slices.Clone(v[:n])
	}
	return out
}

// Equal reports whether both tables have the same columns in the same order
// and the same cells.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || !slices.Equal(t.columns, o.columns) {
		return false
	}
	for _, c := range t.columns {
		if !slices.Equal(t.cells[c], o.cells[c]) {
			return false
		}
	}
	return true
}

// clone copies the column list and map; column slices are shared because
// nothing mutates them in place.
func (t *Table) clone() *Table {
	out := &Table{columns: slices.Clone(t.columns), cells: make(map[string][]string, len(t.cells)), rows: t.rows}
	for c, v := range t.cells {
		out.cells[c] = v
	}
	return out
}
