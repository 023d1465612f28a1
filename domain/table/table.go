package table

import (
	"errors"
	"fmt"
)

// Canonical column names shared by both input datasets.
const (
	ColLvl    = "Lvl"
	ColLevel  = "Level"
	ColName   = "Name"
	ColXMLTag = "XML Tag"
	ColPath   = "Hierarchy Path"
)

// ErrMissingColumn indicates an input table lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// Row holds one sheet row as header→cell pairs. The attribute column set is
// only known at runtime from the workbook header, so rows are maps, not structs.
type Row map[string]string

// Table is an ordered sequence of rows plus the header order they were read in.
type Table struct {
	Headers []string
	Rows    []Row
}

// Clone returns a deep copy; merge passes mutate rows in place and callers
// sometimes need the pre-merge table afterwards.
func (t *Table) Clone() *Table {
	out := &Table{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		out.Rows[i] = dup
	}
	return out
}

// HasColumn reports whether the header list contains name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn appends a header if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
}

// FromCells builds a table from raw sheet cells, first row as header. Cells
// beyond the header width are dropped; short rows simply miss those keys.
func FromCells(cells [][]string) *Table {
	if len(cells) == 0 {
		return &Table{}
	}
	t := &Table{Headers: append([]string(nil), cells[0]...)}
	for _, raw := range cells[1:] {
		row := make(Row, len(t.Headers))
		for j, cell := range raw {
			if j < len(t.Headers) {
				row[t.Headers[j]] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Concat stacks tables in order into one table, unioning headers in
// first-seen order. Rows keep only the keys their own sheet had.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, h := range t.Headers {
			out.AddColumn(h)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}

// LevelColumn resolves which level column a table uses: "Lvl" wins over
// "Level" when both are present. Returns an input-shape error when neither exists.
func (t *Table) LevelColumn() (string, error) {
	if t.HasColumn(ColLvl) {
		return ColLvl, nil
	}
	if t.HasColumn(ColLevel) {
		return ColLevel, nil
	}
	return "", fmt.Errorf("%w: %s (or %s)", ErrMissingColumn, ColLvl, ColLevel)
}

// Validate checks the minimum column contract for a dataset before any
// processing happens. The dataset name is carried in the error so the caller
// can tell which upload was at fault.
func (t *Table) Validate(dataset string) error {
	if _, err := t.LevelColumn(); err != nil {
		return fmt.Errorf("%s table: %w", dataset, err)
	}
	for _, required := range []string{ColName, ColXMLTag} {
		if !t.HasColumn(required) {
			return fmt.Errorf("%s table: %w: %s", dataset, ErrMissingColumn, required)
		}
	}
	return nil
}
