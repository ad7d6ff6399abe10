package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
	"github.com/dmrimawi/patroid/subpattern"
)

func detectAll(g *relation.Graph) map[string][]pattern.Occurrence {
	sets := subpattern.NewEngine().Derive(g)
	return pattern.NewDetector().Detect(sets)
}

func TestEmptyGraphYieldsNoOccurrences(t *testing.T) {
	occ := detectAll(relation.New(nil, nil, nil, nil))
	for name, list := range occ {
		assert.Emptyf(t, list, "pattern %s should be empty", name)
	}
}

func TestSingletonOnlyScenario(t *testing.T) {
	g := relation.New(nil, []relation.AssociationEdge{{Holder: "X", Target: "X"}}, nil, nil)
	occ := detectAll(g)
	require.Len(t, occ[pattern.Singleton], 1)
	assert.Equal(t, subpattern.SASS{X: "X"}, occ[pattern.Singleton][0].Witnesses["SASS"])
	assert.Empty(t, occ[pattern.Template])
}

func TestTemplateScenario(t *testing.T) {
	g := relation.New([]relation.InheritanceEdge{{Parent: "P", Child: "A"}, {Parent: "P", Child: "B"}}, nil, nil, nil)
	occ := detectAll(g)
	require.Len(t, occ[pattern.Template], 1)
	assert.Empty(t, occ[pattern.Adapter])
}

func TestAdapterScenario(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "A"}, {Parent: "P", Child: "B"}},
		[]relation.AssociationEdge{{Holder: "H", Target: "A"}},
		nil, nil,
	)
	occ := detectAll(g)
	require.Len(t, occ[pattern.Adapter], 1)
	assert.Equal(t, subpattern.ICA{P: "P", C: "A", H: "H"}, occ[pattern.Adapter][0].Witnesses["ICA"])
}

func TestAdapterSuppressedForReverseOrderedCISiblings(t *testing.T) {
	// X and Y are CI siblings under P, stored canonically as CI{P,X,Y}
	// (C1<C2). The ICA triple derived from this graph has C="Y", H="X" —
	// the reverse of the canonical ordering — so a lookup that only tries
	// CI{P, C, H} misses the sibling pair and wrongly reports Adapter.
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "X"}, {Parent: "P", Child: "Y"}},
		[]relation.AssociationEdge{{Holder: "X", Target: "Y"}},
		nil, nil,
	)
	occ := detectAll(g)
	assert.Empty(t, occ[pattern.Adapter])
}

func TestCompositeViaSAGGScenario(t *testing.T) {
	g := relation.New(nil, nil, []relation.AggregationEdge{{Whole: "Node", Part: "Node"}}, nil)
	occ := detectAll(g)
	require.Len(t, occ[pattern.Composite], 1)
	assert.Equal(t, subpattern.SAGG{X: "Node"}, occ[pattern.Composite][0].Witnesses["SAGG"])
}

func TestDecoratorScenario(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{
			{Parent: "Comp", Child: "ConcA"},
			{Parent: "Comp", Child: "Dec"},
			{Parent: "Dec", Child: "DecA"},
		},
		nil,
		[]relation.AggregationEdge{{Whole: "Comp", Part: "Dec"}},
		nil,
	)
	occ := detectAll(g)
	require.Len(t, occ[pattern.Decorator], 1)
	w := occ[pattern.Decorator][0].Witnesses
	assert.Equal(t, subpattern.MLI{G: "Comp", P: "Dec", C: "DecA"}, w["MLI"])
	assert.Equal(t, subpattern.IAGG{P: "Comp", C: "Dec"}, w["IAGG"])
}

func TestFacadeScenario(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "C"}},
		nil, nil,
		[]relation.DependencyEdge{{User: "S1", Used: "C"}, {User: "S2", Used: "C"}, {User: "S3", Used: "C"}},
	)
	occ := detectAll(g)
	require.Len(t, occ[pattern.Facade], 1)
	assert.Len(t, occ[pattern.Facade][0].Witnesses, 3)
}

func TestFacadeRequiresAtLeastThreeDependents(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "C"}},
		nil, nil,
		[]relation.DependencyEdge{{User: "S1", Used: "C"}, {User: "S2", Used: "C"}},
	)
	occ := detectAll(g)
	assert.Empty(t, occ[pattern.Facade])
}

func TestStrategyMirrorsState(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "S", Child: "A"}, {Parent: "S", Child: "B"}},
		nil,
		[]relation.AggregationEdge{{Whole: "Ctx", Part: "S"}},
		nil,
	)
	occ := detectAll(g)
	assert.Equal(t, len(occ[pattern.State]), len(occ[pattern.Strategy]))
	require.NotEmpty(t, occ[pattern.State])
}

func TestOccurrenceKeyDeduplicatesIdenticalWitnessBundles(t *testing.T) {
	o1 := pattern.Occurrence{Pattern: pattern.Singleton, Witnesses: map[string]any{"SASS": subpattern.SASS{X: "X"}}}
	o2 := pattern.Occurrence{Pattern: pattern.Singleton, Witnesses: map[string]any{"SASS": subpattern.SASS{X: "X"}}}
	assert.Equal(t, o1.Key(), o2.Key())
}
