package lexical_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/extract/lexical"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractDerivesInheritanceAssociationAndDependency(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "Circle.java", `
public class Circle extends Shape {
    private final Color color;
    public Point center(Point origin) {
        return Helper.compute(origin);
    }
}
`)

	e := lexical.New(".java")
	discovery, err := e.Discover(dir)
	require.NoError(t, err)
	require.Len(t, discovery.SourceFiles, 1)

	g, info, err := e.Extract(context.Background(), discovery)
	require.NoError(t, err)
	assert.Nil(t, info)

	require.Len(t, g.Inheritance(), 1)
	assert.Equal(t, "Shape", string(g.Inheritance()[0].Parent))
	assert.Equal(t, "Circle", string(g.Inheritance()[0].Child))

	require.NotEmpty(t, g.Aggregation())
	assert.Equal(t, "Color", string(g.Aggregation()[0].Part))
}

func TestExtractFailsOnEmptyDiscovery(t *testing.T) {
	e := lexical.New(".java")
	_, _, err := e.Extract(context.Background(), extract.Discovery{})
	require.Error(t, err)
}
