package hierarchy

import (
	"errors"
	"testing"

	"mapmerge/domain/table"
)

// buildTable makes a minimal path-buildable table from parallel slices.
func buildTable(levels, tags, names []string) *table.Table {
	t := &table.Table{Headers: []string{table.ColLvl, table.ColXMLTag, table.ColName}}
	for i := range levels {
		t.Rows = append(t.Rows, table.Row{
			table.ColLvl:    levels[i],
			table.ColXMLTag: tags[i],
			table.ColName:   names[i],
		})
	}
	return t
}

func pathsOf(t *table.Table) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[table.ColPath]
	}
	return out
}

func TestBuildPaths_SiblingBranches(t *testing.T) {
	// Scenario: level sequence [1,2,3,2,3] - the second level-3 row must see
	// the second level-2 ancestor, not the first.
	tbl := buildTable(
		[]string{"1", "2", "3", "2", "3"},
		[]string{"a", "b", "c", "d", "e"},
		[]string{"A", "B", "C", "D", "E"},
	)

	if _, err := BuildPaths(tbl); err != nil {
		t.Fatalf("BuildPaths failed: %v", err)
	}

	expected := []string{
		"a__A",
		"a__A > b__B",
		"a__A > b__B > c__C",
		"a__A > d__D",
		"a__A > d__D > e__E",
	}
	got := pathsOf(tbl)
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("row %d: expected path %q, got %q", i, want, got[i])
		}
	}
}

func TestBuildPaths_DedentEvictsDeeperLevels(t *testing.T) {
	// Scenario: level sequence [1,2,3,1] - returning to level 1 discards the
	// whole open subtree, so the last row's path has only its own component.
	tbl := buildTable(
		[]string{"1", "2", "3", "1"},
		[]string{"a", "b", "c", "d"},
		[]string{"A", "B", "C", "D"},
	)

	if _, err := BuildPaths(tbl); err != nil {
		t.Fatalf("BuildPaths failed: %v", err)
	}

	if got := tbl.Rows[3][table.ColPath]; got != "d__D" {
		t.Errorf("expected final row path %q, got %q", "d__D", got)
	}
}

func TestBuildPaths_UnparseableLevelLeavesStackUntouched(t *testing.T) {
	// Scenario: rows with blank or garbage levels get an empty path and do
	// not disturb the ancestor chain for later rows.
	tbl := buildTable(
		[]string{"1", "", "junk", "2"},
		[]string{"a", "b", "c", "d"},
		[]string{"A", "B", "C", "D"},
	)

	if _, err := BuildPaths(tbl); err != nil {
		t.Fatalf("BuildPaths failed: %v", err)
	}

	got := pathsOf(tbl)
	if got[1] != "" || got[2] != "" {
		t.Errorf("expected empty paths for unparseable levels, got %q and %q", got[1], got[2])
	}
	if got[3] != "a__A > d__D" {
		t.Errorf("expected level-1 ancestor to survive, got %q", got[3])
	}
}

func TestBuildPaths_NonContiguousLevels(t *testing.T) {
	// Scenario: levels need not be contiguous or start at 1.
	tbl := buildTable(
		[]string{"2", "5", "3"},
		[]string{"a", "b", "c"},
		[]string{"A", "B", "C"},
	)

	if _, err := BuildPaths(tbl); err != nil {
		t.Fatalf("BuildPaths failed: %v", err)
	}

	expected := []string{
		"a__A",
		"a__A > b__B",
		"a__A > c__C", // level 5 evicted by the shallower level 3
	}
	got := pathsOf(tbl)
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("row %d: expected path %q, got %q", i, want, got[i])
		}
	}
}

func TestBuildPaths_BlankTagAndNameStillFormComponent(t *testing.T) {
	tbl := buildTable(
		[]string{"1", "2"},
		[]string{"", "tag"},
		[]string{"", "Child"},
	)

	if _, err := BuildPaths(tbl); err != nil {
		t.Fatalf("BuildPaths failed: %v", err)
	}

	if got := tbl.Rows[1][table.ColPath]; got != "__ > tag__Child" {
		t.Errorf("expected blank component to stay in path, got %q", got)
	}
}

func TestBuildPaths_PrefersLvlOverLevel(t *testing.T) {
	tbl := &table.Table{
		Headers: []string{table.ColLvl, table.ColLevel, table.ColXMLTag, table.ColName},
		Rows: []table.Row{
			{table.ColLvl: "1", table.ColLevel: "9", table.ColXMLTag: "a", table.ColName: "A"},
		},
	}

	levelCol, err := BuildPaths(tbl)
	if err != nil {
		t.Fatalf("BuildPaths failed: %v", err)
	}
	if levelCol != table.ColLvl {
		t.Errorf("expected level column %q, got %q", table.ColLvl, levelCol)
	}
}

func TestBuildPaths_MissingLevelColumn(t *testing.T) {
	tbl := &table.Table{Headers: []string{table.ColXMLTag, table.ColName}}

	if _, err := BuildPaths(tbl); !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		cell  string
		level int
		ok    bool
	}{
		{"2", 2, true},
		{"2.0", 2, true},
		{" 3 ", 3, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"2.5", 0, false},
	}
	for _, c := range cases {
		level, ok := ParseLevel(c.cell)
		if ok != c.ok || level != c.level {
			t.Errorf("ParseLevel(%q) = (%d, %v), expected (%d, %v)", c.cell, level, ok, c.level, c.ok)
		}
	}
}
