/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: source_test.go
Description: Tests for sample discovery and loading.
*/

package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kleascm/structgen/pkg/inference"
	"github.com/kleascm/structgen/pkg/source"
	"github.com/kleascm/structgen/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]source.Format{
		"a.json":     source.FormatJSON,
		"b.YAML":     source.FormatYAML,
		"dir/c.yml":  source.FormatYAML,
		"sheets.csv": source.FormatCSV,
	} {
		got, err := source.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := source.FormatFromPath("book.xlsm")
	assert.True(t, errors.Is(err, source.ErrUnsupportedFormat))
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "unit.json"), `{}`)
	writeFile(t, filepath.Join(dir, "nested", "item.yaml"), `a: 1`)
	writeFile(t, filepath.Join(dir, "nested", "deeper", "level.csv"), "")
	writeFile(t, filepath.Join(dir, "README.md"), "docs")
	writeFile(t, filepath.Join(dir, "~$unit.json"), `{}`)

	sources, err := source.Discover(dir)
	require.NoError(t, err)

	var names []string
	for _, s := range sources {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"level", "item", "unit"}, names)
	assert.Equal(t, source.FormatCSV, sources[0].Format)
}

func TestDiscoverSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.json")
	writeFile(t, path, `{"id": 1}`)

	sources, err := source.Discover(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, source.Source{Path: path, Name: "player", Format: source.FormatJSON}, sources[0])

	_, err = source.Discover(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReadObject(t *testing.T) {
	src := source.Source{Path: "player_stats.json", Name: "player_stats", Format: source.FormatJSON}
	doc, err := source.Read(src, strings.NewReader(`{"id": 1}`))
	require.NoError(t, err)

	assert.Equal(t, "PlayerStats", doc.Name)
	assert.Equal(t, "player_stats.json", doc.Path)
	assert.False(t, doc.ArraySource)
	assert.Equal(t, []string{"id"}, doc.Value.Keys())
}

func TestReadSamplesRootArray(t *testing.T) {
	src := source.Source{Path: "unit.yaml", Name: "unit", Format: source.FormatYAML}
	doc, err := source.Read(src, strings.NewReader("- id: 1\n  hp: 10\n- id: 2\n  hp: 20\n"))
	require.NoError(t, err)

	assert.True(t, doc.ArraySource)
	assert.Equal(t, value.Object, doc.Value.Kind())
	assert.Equal(t, []string{"id", "hp"}, doc.Value.Keys())
}

func TestReadEmptyRootArray(t *testing.T) {
	src := source.Source{Path: "unit.json", Name: "unit", Format: source.FormatJSON}
	_, err := source.Read(src, strings.NewReader(`[]`))

	var malformed *inference.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "Unit", malformed.Path)
}

func TestReadCSVSheet(t *testing.T) {
	src := source.Source{Path: "item.csv", Name: "item", Format: source.FormatCSV}
	doc, err := source.Read(src, strings.NewReader("note\ntypes\nid,name,price\n1,Potion,2.5\n"))
	require.NoError(t, err)

	assert.Equal(t, "ItemData", doc.Name)
	assert.Equal(t, "item.csv", doc.Path)
	assert.True(t, doc.ArraySource)
	assert.Equal(t, []string{"name", "price"}, doc.Value.Keys())
}

func TestReadDecodeError(t *testing.T) {
	src := source.Source{Path: "bad.json", Name: "bad", Format: source.FormatJSON}
	_, err := source.Read(src, strings.NewReader(`{"a": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.json")
	writeFile(t, path, `[{"id": 1}]`)

	src, err := source.NewSource(path)
	require.NoError(t, err)
	doc, err := source.Load(src)
	require.NoError(t, err)
	assert.Equal(t, "Unit", doc.Name)
	assert.True(t, doc.ArraySource)

	_, err = source.Load(source.Source{Path: filepath.Join(t.TempDir(), "gone.json"), Format: source.FormatJSON})
	assert.Error(t, err)
}
