package modulefile_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/modulefile"
	"github.com/dmrimawi/patroid/relation"
	"github.com/dmrimawi/patroid/subpattern"
)

func TestRoundTripPreservesGraphUnderEdgeEquality(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "Shape", Child: "Circle"}},
		[]relation.AssociationEdge{{Holder: "Circle", Target: "Color"}},
		[]relation.AggregationEdge{{Whole: "Drawing", Part: "Circle"}},
		[]relation.DependencyEdge{{User: "Client", Used: "Drawing"}},
	)
	m := &extract.ManifestInfo{EntryPoints: []extract.EntryPoint{
		{Name: "MainActivity", Category: "LAUNCHER", Classes: []relation.ClassID{"Circle", "Drawing"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, modulefile.Write(&buf, g, m))

	got, gotManifest, err := modulefile.Read(&buf)
	require.NoError(t, err)

	assert.True(t, g.Equal(got))
	require.NotNil(t, gotManifest)
	require.Len(t, gotManifest.EntryPoints, 1)
	assert.Equal(t, "LAUNCHER", gotManifest.EntryPoints[0].Category)
	assert.ElementsMatch(t, []relation.ClassID{"Circle", "Drawing"}, gotManifest.EntryPoints[0].Classes)
}

func TestRoundTripYieldsIdenticalSubPatternSets(t *testing.T) {
	g := relation.New([]relation.InheritanceEdge{{Parent: "P", Child: "A"}, {Parent: "P", Child: "B"}}, nil, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, modulefile.Write(&buf, g, nil))

	got, gotManifest, err := modulefile.Read(&buf)
	require.NoError(t, err)
	assert.Nil(t, gotManifest)

	before := subpattern.NewEngine().Derive(g)
	after := subpattern.NewEngine().Derive(got)
	assert.Equal(t, before.CI, after.CI)
}

func TestReadRejectsMalformedXML(t *testing.T) {
	_, _, err := modulefile.Read(bytes.NewBufferString("not xml at all <<<"))
	require.Error(t, err)
}

func TestWriteEmptyGraphRoundTrips(t *testing.T) {
	g := relation.New(nil, nil, nil, nil)
	var buf bytes.Buffer
	require.NoError(t, modulefile.Write(&buf, g, nil))

	got, _, err := modulefile.Read(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}
