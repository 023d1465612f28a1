// Package merge joins a path-built Test table against a path-built Source
// table and fills blank Test cells from Source: a primary exact join on
// (Hierarchy Path, XML Tag), then a fallback pass that recovers attributes
// for blank-tag rows from untagged Source rows at the same path/level/name.
package merge

import (
	"fmt"
	"regexp"
	"strings"

	"mapmerge/domain/hierarchy"
	"mapmerge/domain/table"
)

// keySep is a cell-safe separator for composite lookup keys.
const keySep = "\x1f"

// Result is the complete outcome of one merge run.
type Result struct {
	Columns     []string    // final output column order
	Rows        []table.Row // merged Test-derived rows, scrubbed
	Differences []Difference
	Stats       Stats
}

// Difference records one cell where Test and Source disagree, compared
// before any filling. Unmatched Test rows compare against blank.
type Difference struct {
	Path        string
	Tag         string
	Column      string
	TestValue   string
	SourceValue string
}

// Stats carries merge accounting for the run report.
type Stats struct {
	SourceRows    int
	TestRows      int
	MatchedRows   int
	PrimaryFills  int
	FallbackRows  int
	FallbackFills int
	FillsPerRow   []float64
}

// OutputColumns selects the Source attribute columns that participate in the
// merge: every Source header except the join keys, the level columns, and
// positional artifacts (blank headers, pandas-style "Unnamed" headers).
func OutputColumns(source *table.Table) []string {
	var cols []string
	for _, h := range source.Headers {
		switch h {
		case table.ColPath, table.ColXMLTag, table.ColLevel, table.ColLvl:
			continue
		}
		if h == "" || strings.HasPrefix(h, "Unnamed") {
			continue
		}
		cols = append(cols, h)
	}
	return cols
}

// Merge left-joins test rows to source rows. Both tables must already be
// normalized and path-built (they carry a Hierarchy Path column). Test cells
// are never overwritten: a Source value lands only where the Test cell is blank.
func Merge(source, test *table.Table) (*Result, error) {
	sourceLevelCol, err := source.LevelColumn()
	if err != nil {
		return nil, fmt.Errorf("source table: %w", err)
	}
	testLevelCol, err := test.LevelColumn()
	if err != nil {
		return nil, fmt.Errorf("test table: %w", err)
	}

	outCols := OutputColumns(source)
	primary := indexPrimary(source)
	fallback := indexFallback(source, sourceLevelCol)

	result := &Result{
		Stats: Stats{
			SourceRows:  len(source.Rows),
			TestRows:    len(test.Rows),
			FillsPerRow: make([]float64, len(test.Rows)),
		},
	}

	// Primary join: exact (path, tag) match, first Source occurrence wins.
	// Differences are recorded against the pre-fill Test values.
	for i, testRow := range test.Rows {
		row := make(table.Row, len(testRow)+len(outCols))
		for k, v := range testRow {
			row[k] = v
		}

		srcRow, matched := primary[joinKey(row[table.ColPath], row[table.ColXMLTag])]
		if matched {
			result.Stats.MatchedRows++
		}
		for _, col := range outCols {
			testVal := row[col]
			sourceVal := ""
			if matched {
				sourceVal = srcRow[col]
			}
			if testVal != sourceVal {
				result.Differences = append(result.Differences, Difference{
					Path:        row[table.ColPath],
					Tag:         row[table.ColXMLTag],
					Column:      col,
					TestValue:   testVal,
					SourceValue: sourceVal,
				})
			}
			if testVal == "" && sourceVal != "" {
				row[col] = sourceVal
				result.Stats.PrimaryFills++
				result.Stats.FillsPerRow[i]++
			}
		}
		result.Rows = append(result.Rows, row)
	}

	// Fallback pass: rows with no tag cannot have matched the primary join
	// against tagged Source rows, so recover attributes from an untagged
	// Source row at the same path, level, and name.
	for i, row := range result.Rows {
		if row[table.ColXMLTag] != "" || row[table.ColPath] == "" {
			continue
		}
		level, ok := hierarchy.ParseLevel(row[testLevelCol])
		if !ok {
			continue
		}
		fbRow, found := fallback[fallbackKey(row[table.ColPath], level, row[table.ColName])]
		if !found {
			continue
		}
		result.Stats.FallbackRows++
		for _, col := range outCols {
			if row[col] == "" && fbRow[col] != "" {
				row[col] = fbRow[col]
				result.Stats.FallbackFills++
				result.Stats.FillsPerRow[i]++
			}
		}
	}

	result.Columns = outputOrder(source, test, outCols)
	scrubRows(result.Rows, result.Columns)
	return result, nil
}

// indexPrimary builds the deduplicated (path, tag) lookup over Source rows.
// Later rows sharing a key are dropped silently.
func indexPrimary(source *table.Table) map[string]table.Row {
	index := make(map[string]table.Row, len(source.Rows))
	for _, row := range source.Rows {
		key := joinKey(row[table.ColPath], row[table.ColXMLTag])
		if _, exists := index[key]; !exists {
			index[key] = row
		}
	}
	return index
}

// indexFallback pre-indexes untagged Source rows by (path, level, name) so
// the fallback pass is a hash lookup instead of a scan. First match wins, so
// only the first row per key is kept.
func indexFallback(source *table.Table, levelCol string) map[string]table.Row {
	index := make(map[string]table.Row)
	for _, row := range source.Rows {
		if row[table.ColXMLTag] != "" || row[table.ColPath] == "" {
			continue
		}
		level, ok := hierarchy.ParseLevel(row[levelCol])
		if !ok {
			continue
		}
		key := fallbackKey(row[table.ColPath], level, row[table.ColName])
		if _, exists := index[key]; !exists {
			index[key] = row
		}
	}
	return index
}

func joinKey(path, tag string) string {
	return path + keySep + tag
}

func fallbackKey(path string, level int, name string) string {
	return fmt.Sprintf("%s%s%d%s%s", path, keySep, level, keySep, name)
}

// outputOrder applies the output contract: Source's header order minus the
// helper path column, restricted to columns the joined result actually has.
// Test-only columns are dropped.
func outputOrder(source, test *table.Table, outCols []string) []string {
	inJoin := make(map[string]bool, len(test.Headers)+len(outCols))
	for _, h := range test.Headers {
		inJoin[h] = true
	}
	for _, h := range outCols {
		inJoin[h] = true
	}

	var cols []string
	for _, h := range source.Headers {
		if h == table.ColPath || !inJoin[h] {
			continue
		}
		cols = append(cols, h)
	}
	return cols
}

// lineBreaks matches embedded line breaks plus the escaped carriage-return
// marker excel writers emit; each occurrence becomes one space so every
// output cell stays single-line.
var lineBreaks = regexp.MustCompile(`_x000D_|\r\n|\r|\n`)

// Scrub flattens a single cell value.
func Scrub(v string) string {
	return lineBreaks.ReplaceAllString(v, " ")
}

func scrubRows(rows []table.Row, cols []string) {
	for _, row := range rows {
		for _, col := range cols {
			row[col] = Scrub(row[col])
		}
	}
}

// StrippedSource is the normalized Source table without the helper path
// column, scrubbed the same way as the merged output. It ships as its own
// output sheet so reviewers can see exactly what the merge keyed on.
func StrippedSource(source *table.Table) *table.Table {
	out := source.Clone()
	headers := out.Headers[:0]
	for _, h := range out.Headers {
		if h != table.ColPath {
			headers = append(headers, h)
		}
	}
	out.Headers = headers
	for _, row := range out.Rows {
		delete(row, table.ColPath)
		for k, v := range row {
			row[k] = Scrub(v)
		}
	}
	return out
}
