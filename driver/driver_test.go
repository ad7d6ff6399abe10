package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/driver"
	"github.com/dmrimawi/patroid/extract/lexical"
	"github.com/dmrimawi/patroid/modulefile"
	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
)

func TestAnalyzeProjectFromModuleFileSkipsExtraction(t *testing.T) {
	dir := t.TempDir()
	moduleFile := filepath.Join(dir, "output_module.xml")

	g := relation.New([]relation.InheritanceEdge{{Parent: "P", Child: "A"}, {Parent: "P", Child: "B"}}, nil, nil, nil)
	f, err := os.Create(moduleFile)
	require.NoError(t, err)
	require.NoError(t, modulefile.Write(f, g, nil))
	require.NoError(t, f.Close())

	d := driver.New(lexical.New(".java"))
	r, err := d.AnalyzeProject(context.Background(), "", moduleFile)
	require.NoError(t, err)
	require.Len(t, r.Occurrences[pattern.Template], 1)
}

func TestAnalyzeProjectFailsWithoutInput(t *testing.T) {
	d := driver.New(lexical.New(".java"))
	_, err := d.AnalyzeProject(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InputMissing))
}

func TestAnalyzeProjectFailsOnEmptyProjectDir(t *testing.T) {
	dir := t.TempDir()
	d := driver.New(lexical.New(".java"))
	_, err := d.AnalyzeProject(context.Background(), dir, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NoSources))
}

func TestAnalyzeBatchTolerateIsPerProjectFailure(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty-project")
	require.NoError(t, os.Mkdir(empty, 0o755))

	good := filepath.Join(root, "good-project")
	require.NoError(t, os.Mkdir(good, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(good, "AndroidManifest.xml"), []byte(`<manifest><application/></manifest>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(good, "Shape.java"), []byte(`public class Shape {}`), 0o644))

	d := driver.New(lexical.New(".java"))
	results, err := d.AnalyzeBatch(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byProject := make(map[string]driver.BatchResult, len(results))
	for _, r := range results {
		byProject[r.Project] = r
	}
	assert.Error(t, byProject["empty-project"].Err)
	assert.NoError(t, byProject["good-project"].Err)
	assert.NotNil(t, byProject["good-project"].Report)
}
