package doctor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/extract/lexical"
	"github.com/dmrimawi/patroid/internal/cli"
	"github.com/dmrimawi/patroid/internal/doctor"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestRunFlagsMissingInputSelection(t *testing.T) {
	d := doctor.New(lexical.New(".java"), nil)
	r := d.Run(context.Background(), &cli.Config{})
	assert.True(t, r.HasErrors())
}

func TestRunPassesOnHealthyProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AndroidManifest.xml"), []byte(`<manifest><application/></manifest>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Shape.java"), []byte(`public class Shape {}`), 0o644))

	d := doctor.New(lexical.New(".java"), fakePinger{})
	cfg := &cli.Config{Path: dir, Database: cli.DatabaseConfig{Host: "localhost", Name: "patroid", User: "patroid"}}
	r := d.Run(context.Background(), cfg)

	assert.False(t, r.HasErrors())
}

func TestRunWarnsOnMissingManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Shape.java"), []byte(`public class Shape {}`), 0o644))

	d := doctor.New(lexical.New(".java"), nil)
	cfg := &cli.Config{Path: dir}
	r := d.Run(context.Background(), cfg)

	// One warning for the missing manifest, one for the unconfigured store.
	assert.Equal(t, 2, r.Warnings)
}

func TestRunFailsOnUnreachableStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AndroidManifest.xml"), []byte(`<manifest><application/></manifest>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Shape.java"), []byte(`public class Shape {}`), 0o644))

	d := doctor.New(lexical.New(".java"), fakePinger{err: errors.New("connection refused")})
	cfg := &cli.Config{Path: dir, Database: cli.DatabaseConfig{Host: "localhost", Name: "patroid", User: "patroid"}}
	r := d.Run(context.Background(), cfg)

	assert.True(t, r.HasErrors())
}

func TestRunFlagsUnwritableModuleDestination(t *testing.T) {
	d := doctor.New(lexical.New(".java"), nil)
	cfg := &cli.Config{ModuleFile: "/nonexistent-dir-xyz/out.xml"}
	r := d.Run(context.Background(), cfg)

	assert.True(t, r.HasErrors())
}
