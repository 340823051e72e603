/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sheet_test.go
Description: Tests for sheet folding and cell parsing.
*/

package sheet_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kleascm/structgen/pkg/sheet"
	"github.com/kleascm/structgen/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(titles ...string) [][]string {
	return [][]string{
		{"comment"},
		{"type", "type"},
		titles,
	}
}

func TestFoldDataSheet(t *testing.T) {
	rows := append(header("id", "name", "hp", "speed", "", "drops"),
		[]string{"1", "Slime", "10", "1.5", "ignored", `[{"item"=3}]`},
		[]string{"2", "Bat", "4", "2", "", ""},
	)

	doc, err := sheet.Fold("Monster", rows)
	require.NoError(t, err)

	assert.Equal(t, "MonsterData", doc.Name)
	assert.True(t, doc.ArraySource)
	assert.Equal(t, []string{"name", "hp", "speed", "drops"}, doc.Value.Keys())

	hp, _ := doc.Value.Get("hp")
	assert.Equal(t, value.Int, hp.Kind())
	speed, _ := doc.Value.Get("speed")
	assert.Equal(t, value.Float, speed.Kind())

	drops, _ := doc.Value.Get("drops")
	require.Equal(t, value.Array, drops.Kind())
	item, ok := drops.Index(0).Get("item")
	require.True(t, ok)
	assert.Equal(t, int64(3), item.Int())
}

func TestFoldSkipsBlankCells(t *testing.T) {
	rows := append(header("id", "a", "b", "c"),
		[]string{"7", "  ", "x"},
	)

	doc, err := sheet.Fold("S", rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, doc.Value.Keys())
}

func TestFoldConfigSheet(t *testing.T) {
	rows := append(header("key", "value"),
		[]string{"max_level", "60"},
		[]string{"", "skipped"},
		[]string{"motd", "hello"},
		[]string{"spawn", "{1,2}"},
	)

	doc, err := sheet.Fold("Global", rows)
	require.NoError(t, err)
	assert.Equal(t, "GlobalData", doc.Name)
	assert.Equal(t, []string{"max_level", "motd", "spawn"}, doc.Value.Keys())

	spawn, _ := doc.Value.Get("spawn")
	require.Equal(t, value.Array, spawn.Kind())
	assert.Equal(t, 2, spawn.Len())
}

func TestFoldConfigThenDataRow(t *testing.T) {
	rows := append(header("id", "name"),
		[]string{"version", "3"},
		[]string{"1", "first"},
		[]string{"2", "second"},
	)

	doc, err := sheet.Fold("Mixed", rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"version", "name"}, doc.Value.Keys())
	name, _ := doc.Value.Get("name")
	assert.Equal(t, "first", name.Str())
}

func TestFoldErrors(t *testing.T) {
	_, err := sheet.Fold("S", [][]string{{"a"}})
	assert.True(t, errors.Is(err, sheet.ErrNoTitles))

	_, err = sheet.Fold("S", header("", "name"))
	assert.True(t, errors.Is(err, sheet.ErrNoTitles))

	_, err = sheet.Fold("S", header("id", "name"))
	assert.True(t, errors.Is(err, sheet.ErrEmptySheet))

	_, err = sheet.Fold("S", append(header("id", "bad"), []string{"1", "[oops]"}))
	var cellErr *sheet.CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 3, cellErr.Row)
	assert.Equal(t, 1, cellErr.Column)
	assert.Contains(t, err.Error(), "row 4 column 2")
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		text string
		kind value.Kind
	}{
		{"42", value.Int},
		{" 3.0 ", value.Int},
		{"0.25", value.Float},
		{"-7", value.Int},
		{"inf", value.String},
		{"NaN", value.String},
		{"plain text", value.String},
		{"[", value.String},
		{"[1, 2]", value.Array},
		{`[{"a"=1}]`, value.Array},
		{"{1,2,3}", value.Array},
	}
	for _, tt := range tests {
		v, err := sheet.ParseCell(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.kind, v.Kind(), tt.text)
	}
}

func TestReadCSV(t *testing.T) {
	rows, err := sheet.ReadCSV(strings.NewReader("a\nb,c\n\"x,y\",z,w\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b", "c"}, {"x,y", "z", "w"}}, rows)
}
