/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline_test.go
Description: Tests for batch generation: source ordering under concurrency, skipping of
invalid inputs, cross-file record conflicts, cancellation and the generated file text.
*/

package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kleascm/structgen/pkg/inference"
	"github.com/kleascm/structgen/pkg/pipeline"
	"github.com/kleascm/structgen/pkg/render"
	"github.com/kleascm/structgen/pkg/source"
	"github.com/kleascm/structgen/pkg/value"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeSources(t *testing.T, files map[string]string) []source.Source {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	sources, err := source.Discover(dir)
	require.NoError(t, err)
	return sources
}

func declNames(decls []render.Declaration) []string {
	var out []string
	for _, d := range decls {
		out = append(out, d.Name)
	}
	return out
}

func TestGenerate(t *testing.T) {
	v, err := value.DecodeJSON(strings.NewReader(`{"id": 3, "misc": [], "pos": {"x": 1.0, "y": 2.0}}`))
	require.NoError(t, err)

	file, err := pipeline.Generate(context.Background(), &value.Document{Name: "Player", Path: "player.json", Value: v}, pipeline.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Player", file.Record)
	assert.Equal(t, "player.json", file.Path)
	assert.Equal(t, []string{"Pos", "Player"}, declNames(file.Declarations))
	require.Len(t, file.Ambiguities, 1)
	assert.Equal(t, "Player.misc", file.Ambiguities[0].Path)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Generate(ctx, &value.Document{Name: "X", Value: value.NewObject()}, pipeline.DefaultOptions())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunKeepsSourceOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	files := make(map[string]string)
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("rec%02d.json", i)] = fmt.Sprintf(`{"v%d": %d}`, i, i)
	}
	sources := writeSources(t, files)

	opts := pipeline.DefaultOptions()
	opts.Workers = 4
	log, _ := test.NewNullLogger()

	result, err := pipeline.Run(context.Background(), sources, opts, log)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	var want []string
	for i := 0; i < 20; i++ {
		want = append(want, fmt.Sprintf("Rec%02d", i))
	}
	assert.Equal(t, want, declNames(result.Declarations))
	assert.Len(t, result.Files, 20)
	assert.NotEmpty(t, result.RunID)
}

func TestRunAbortsOnInvalidInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	sources := writeSources(t, map[string]string{
		"a.json": `{"ok": 1}`,
		"b.json": `{"bad": null}`,
	})
	log, _ := test.NewNullLogger()

	_, err := pipeline.Run(context.Background(), sources, pipeline.DefaultOptions(), log)
	require.Error(t, err)

	var unsupported *inference.UnsupportedTypeError
	assert.True(t, errors.As(err, &unsupported))
	assert.Contains(t, err.Error(), "b.json")
}

func TestRunSkipsInvalidInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	sources := writeSources(t, map[string]string{
		"a.json": `{"ok": 1}`,
		"b.json": `{"bad": null}`,
		"c.json": `{"broken": `,
		"d.json": `[]`,
	})
	opts := pipeline.DefaultOptions()
	opts.SkipInvalid = true
	log, hook := test.NewNullLogger()

	result, err := pipeline.Run(context.Background(), sources, opts, log)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, declNames(result.Declarations))
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, "b", result.Skipped[0].Source.Name)
	assert.Equal(t, "c", result.Skipped[1].Source.Name)
	assert.Equal(t, "d", result.Skipped[2].Source.Name)

	require.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), "3 errors occurred")

	var warnings int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 3, warnings)
}

func TestRunCrossFileRecords(t *testing.T) {
	same := writeSources(t, map[string]string{
		"home.json": `{"pos": {"x": 1}}`,
		"away.json": `{"pos": {"x": 5}}`,
	})
	log, _ := test.NewNullLogger()

	result, err := pipeline.Run(context.Background(), same, pipeline.DefaultOptions(), log)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pos", "Away", "Home"}, declNames(result.Declarations))

	conflicting := writeSources(t, map[string]string{
		"home.json": `{"pos": {"x": 1}}`,
		"away.json": `{"pos": {"y": "a"}}`,
	})
	opts := pipeline.DefaultOptions()
	opts.SkipInvalid = true
	_, err = pipeline.Run(context.Background(), conflicting, opts, log)

	var dup *render.DuplicateRecordError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Pos", dup.Name)
	assert.Len(t, dup.Sources, 2)
}

func TestRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	sources := writeSources(t, map[string]string{"a.json": `{"ok": 1}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := pipeline.DefaultOptions()
	opts.SkipInvalid = true
	_, err := pipeline.Run(ctx, sources, opts, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunRejectsBadOptions(t *testing.T) {
	opts := pipeline.DefaultOptions()
	opts.PackageName = ""
	_, err := pipeline.Run(context.Background(), nil, opts, nil)
	assert.Error(t, err)

	opts = pipeline.DefaultOptions()
	opts.Render.Order = "sideways"
	_, err = pipeline.Run(context.Background(), nil, opts, nil)
	assert.Error(t, err)
}

func TestResultReport(t *testing.T) {
	sources := writeSources(t, map[string]string{
		"a.json": `{"list": [1, "x"]}`,
		"b.json": `{"bad": null}`,
	})
	opts := pipeline.DefaultOptions()
	opts.SkipInvalid = true
	log, _ := test.NewNullLogger()

	result, err := pipeline.Run(context.Background(), sources, opts, log)
	require.NoError(t, err)

	rep := result.Report("1.0.0", "out/types.go")
	assert.Equal(t, result.RunID, rep.RunID)
	assert.Equal(t, 1, rep.Declarations)
	assert.Equal(t, 1, rep.Ambiguities)
	require.Len(t, rep.Files, 1)
	assert.Equal(t, []string{"A"}, rep.Files[0].Declarations)
	assert.Equal(t, "A.list", rep.Files[0].Ambiguities[0].Path)
	require.Len(t, rep.Skipped, 1)
	assert.Contains(t, rep.Skipped[0].Error, "no primitive mapping")
}

func TestFileContents(t *testing.T) {
	decls := []render.Declaration{
		{Name: "Pos", Fields: []render.DeclField{
			{Name: "X", Type: "float32", Key: "x"},
			{Name: "Y", Type: "float32", Key: "y"},
		}},
		{Name: "Player", Fields: []render.DeclField{
			{Name: "Id", Type: "int", Key: "id"},
			{Name: "Tags", Type: "[]string", Key: "tags", OmitEmpty: true},
		}},
	}

	raw, err := pipeline.FileContents("json", decls, render.GoTarget(), false)
	require.NoError(t, err)
	want := "package json\n\n" +
		"type Pos struct {\n\tX\tfloat32\t`json:\"x\"`\n\tY\tfloat32\t`json:\"y\"`\n}\n\n" +
		"type Player struct {\n\tId\tint\t`json:\"id\"`\n\tTags\t[]string\t`json:\"tags,omitempty\"`\n}\n\n"
	if diff := cmp.Diff(want, string(raw)); diff != "" {
		t.Errorf("unformatted output mismatch (-want +got):\n%s", diff)
	}

	formatted, err := pipeline.FileContents("json", decls, render.GoTarget(), true)
	require.NoError(t, err)
	assert.Contains(t, string(formatted), "\tId   int      `json:\"id\"`\n")
	assert.Contains(t, string(formatted), "\tTags []string `json:\"tags,omitempty\"`\n")
	assert.True(t, strings.HasSuffix(string(formatted), "}\n"))
}

func TestWriteAndWriteFile(t *testing.T) {
	decls := []render.Declaration{{Name: "A", Fields: []render.DeclField{{Name: "B", Type: "int", Key: "b"}}}}

	var buf bytes.Buffer
	require.NoError(t, pipeline.Write(&buf, "gen", decls, render.GoTarget(), false, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "package gen\n\n"))

	path := filepath.Join(t.TempDir(), "nested", "types.go")
	require.NoError(t, pipeline.WriteFile(path, "gen", decls, render.GoTarget(), true, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type A struct {\n\tB int `json:\"b\"`\n}\n")
}

func TestFileContentsRejectsInvalidGo(t *testing.T) {
	decls := []render.Declaration{{Name: "bad name", Fields: nil}}
	_, err := pipeline.FileContents("json", decls, render.GoTarget(), true)
	assert.Error(t, err)
}

func TestWriteFallsBackToUnformattedText(t *testing.T) {
	decls := []render.Declaration{{Name: "Score", Fields: []render.DeclField{
		{Name: "Hit-points", Type: "int", Key: "hit-points"},
		{Name: "1stPlace", Type: "string", Key: "1st_place"},
	}}}
	log, hook := test.NewNullLogger()

	var buf bytes.Buffer
	require.NoError(t, pipeline.Write(&buf, "json", decls, render.GoTarget(), true, log))
	raw, err := pipeline.FileContents("json", decls, render.GoTarget(), false)
	require.NoError(t, err)
	assert.Equal(t, string(raw), buf.String())

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "unformatted")

	path := filepath.Join(t.TempDir(), "types.go")
	require.NoError(t, pipeline.WriteFile(path, "json", decls, render.GoTarget(), true, log))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\tHit-points\tint\t`json:\"hit-points\"`")
}
