package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCells(t *testing.T) {
	tbl := FromCells([][]string{
		{"Lvl", "Name", "XML Tag"},
		{"1", "Root", "Document", "overflow"},
		{"2", "Child"},
	})

	assert.Equal(t, []string{"Lvl", "Name", "XML Tag"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Document", tbl.Rows[0]["XML Tag"])

	// Short rows miss keys; cells beyond the header width are dropped
	_, hasTag := tbl.Rows[1]["XML Tag"]
	assert.False(t, hasTag)
	assert.NotContains(t, tbl.Rows[0], "overflow")
}

func TestFromCells_Empty(t *testing.T) {
	tbl := FromCells(nil)
	assert.Empty(t, tbl.Headers)
	assert.Empty(t, tbl.Rows)
}

func TestNormalize_TrimsHeadersAndCells(t *testing.T) {
	tbl := &Table{
		Headers: []string{" Lvl ", "Name"},
		Rows: []Row{
			{" Lvl ": " 1 ", "Name": "  Root\t"},
		},
	}

	clean := Normalize(tbl)

	assert.Equal(t, []string{"Lvl", "Name"}, clean.Headers)
	assert.Equal(t, "1", clean.Rows[0]["Lvl"])
	assert.Equal(t, "Root", clean.Rows[0]["Name"])
	// Original untouched
	assert.Equal(t, " 1 ", tbl.Rows[0][" Lvl "])
}

func TestConcat_UnionsHeadersInFirstSeenOrder(t *testing.T) {
	a := &Table{Headers: []string{"Lvl", "Name"}, Rows: []Row{{"Lvl": "1", "Name": "A"}}}
	b := &Table{Headers: []string{"Name", "XML Tag"}, Rows: []Row{{"Name": "B", "XML Tag": "t"}}}

	merged := Concat(a, b)

	assert.Equal(t, []string{"Lvl", "Name", "XML Tag"}, merged.Headers)
	require.Len(t, merged.Rows, 2)
	assert.Equal(t, "A", merged.Rows[0]["Name"])
	assert.Equal(t, "t", merged.Rows[1]["XML Tag"])
}

func TestLevelColumn_PrefersLvl(t *testing.T) {
	both := &Table{Headers: []string{ColLevel, ColLvl}}
	col, err := both.LevelColumn()
	require.NoError(t, err)
	assert.Equal(t, ColLvl, col)

	levelOnly := &Table{Headers: []string{ColLevel}}
	col, err = levelOnly.LevelColumn()
	require.NoError(t, err)
	assert.Equal(t, ColLevel, col)

	neither := &Table{Headers: []string{ColName}}
	_, err = neither.LevelColumn()
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestValidate(t *testing.T) {
	valid := &Table{Headers: []string{ColLvl, ColName, ColXMLTag}}
	assert.NoError(t, valid.Validate("source"))

	missingTag := &Table{Headers: []string{ColLvl, ColName}}
	err := missingTag.Validate("test")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "test table")
	assert.Contains(t, err.Error(), ColXMLTag)
}

func TestClone_IsDeep(t *testing.T) {
	tbl := &Table{Headers: []string{"Name"}, Rows: []Row{{"Name": "A"}}}

	dup := tbl.Clone()
	dup.Rows[0]["Name"] = "B"
	dup.Headers[0] = "Other"

	assert.Equal(t, "A", tbl.Rows[0]["Name"])
	assert.Equal(t, "Name", tbl.Headers[0])
}
