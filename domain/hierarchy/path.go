package hierarchy

import (
	"sort"
	"strconv"
	"strings"

	"mapmerge/domain/table"
)

// Separator joins path components from the outermost ancestor inward.
const Separator = " > "

// pathStack tracks the currently-open ancestor chain, keyed by nesting level.
// It lives only for the duration of one BuildPaths call.
type pathStack map[int]string

// set records the component for a level and evicts every strictly deeper
// level, closing any previously-open subtree below the current row.
func (s pathStack) set(level int, component string) {
	s[level] = component
	for lvl := range s {
		if lvl > level {
			delete(s, lvl)
		}
	}
}

// path renders the open chain: components joined by Separator in ascending
// level order.
func (s pathStack) path() string {
	levels := make([]int, 0, len(s))
	for lvl := range s {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	parts := make([]string, len(levels))
	for i, lvl := range levels {
		parts[i] = s[lvl]
	}
	return strings.Join(parts, Separator)
}

// ParseLevel interprets a cell as a nesting level. Excel numeric cells come
// through as "2" or occasionally "2.0"; both parse. Blank or non-integral
// values do not.
func ParseLevel(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Component builds one stack entry from a row's own tag and name. Either may
// be blank; the underscore join is kept regardless so paths stay comparable.
func Component(tag, name string) string {
	return tag + "__" + name
}

// BuildPaths materializes the Hierarchy Path column on t: a single
// left-to-right fold over row order with a mutable level-keyed stack. Rows
// whose level cell does not parse get an empty path and leave the stack
// untouched. Returns the resolved level column name for the caller's later use.
func BuildPaths(t *table.Table) (string, error) {
	levelCol, err := t.LevelColumn()
	if err != nil {
		return "", err
	}

	stack := make(pathStack)
	t.AddColumn(table.ColPath)
	for _, row := range t.Rows {
		level, ok := ParseLevel(row[levelCol])
		if !ok {
			row[table.ColPath] = ""
			continue
		}
		stack.set(level, Component(row[table.ColXMLTag], row[table.ColName]))
		row[table.ColPath] = stack.path()
	}
	return levelCol, nil
}
