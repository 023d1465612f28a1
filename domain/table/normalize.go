package table

import "strings"

// Normalize trims leading/trailing whitespace from every header and cell,
// returning a new table with identical shape. Every cell in this model is
// text, so there is no type distinction to preserve.
func Normalize(t *Table) *Table {
	out := &Table{
		Headers: make([]string, len(t.Headers)),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, h := range t.Headers {
		out.Headers[i] = strings.TrimSpace(h)
	}
	for i, row := range t.Rows {
		clean := make(Row, len(row))
		for k, v := range row {
			clean[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		out.Rows[i] = clean
	}
	return out
}
