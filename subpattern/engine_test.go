package subpattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmrimawi/patroid/relation"
	"github.com/dmrimawi/patroid/subpattern"
)

func derive(g *relation.Graph) subpattern.Set {
	return subpattern.NewEngine().Derive(g)
}

func TestEmptyGraphYieldsEmptySet(t *testing.T) {
	s := derive(relation.New(nil, nil, nil, nil))
	assert.Empty(t, s.ICA)
	assert.Empty(t, s.CI)
	assert.Empty(t, s.IAGG)
	assert.Empty(t, s.IPAG)
	assert.Empty(t, s.MLI)
	assert.Empty(t, s.IASS)
	assert.Empty(t, s.SAGG)
	assert.Empty(t, s.IIAGG)
	assert.Empty(t, s.SASS)
	assert.Empty(t, s.ICD)
	assert.Empty(t, s.DCI)
	assert.Empty(t, s.IPAS)
	assert.Empty(t, s.AGPI)
	assert.Empty(t, s.IPD)
	assert.Empty(t, s.DPI)
}

func TestSingletonScenario(t *testing.T) {
	g := relation.New(nil, []relation.AssociationEdge{{Holder: "X", Target: "X"}}, nil, nil)
	s := derive(g)
	assert.Equal(t, []subpattern.SASS{{X: "X"}}, s.SASS)
	assert.Empty(t, s.SAGG)
}

func TestTemplateScenario(t *testing.T) {
	g := relation.New([]relation.InheritanceEdge{{Parent: "P", Child: "A"}, {Parent: "P", Child: "B"}}, nil, nil, nil)
	s := derive(g)
	assert.Equal(t, []subpattern.CI{{P: "P", C1: "A", C2: "B"}}, s.CI)
}

func TestAdapterVsNonAdapterScenario(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "A"}, {Parent: "P", Child: "B"}},
		[]relation.AssociationEdge{{Holder: "H", Target: "A"}},
		nil, nil,
	)
	s := derive(g)
	assert.Equal(t, []subpattern.ICA{{P: "P", C: "A", H: "H"}}, s.ICA)
	assert.Equal(t, []subpattern.CI{{P: "P", C1: "A", C2: "B"}}, s.CI)
}

func TestCompositeViaSAGGScenario(t *testing.T) {
	g := relation.New(nil, nil, []relation.AggregationEdge{{Whole: "Node", Part: "Node"}}, nil)
	s := derive(g)
	assert.Equal(t, []subpattern.SAGG{{X: "Node"}}, s.SAGG)
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
	s := derive(g)
	assert.Equal(t, []subpattern.MLI{{G: "Comp", P: "Dec", C: "DecA"}}, s.MLI)
	assert.Equal(t, []subpattern.IAGG{{P: "Comp", C: "Dec"}}, s.IAGG)
	assert.Equal(t, []subpattern.CI{{P: "Comp", C1: "ConcA", C2: "Dec"}}, s.CI)
}

func TestFacadeScenario(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "C"}},
		nil, nil,
		[]relation.DependencyEdge{{User: "S1", Used: "C"}, {User: "S2", Used: "C"}, {User: "S3", Used: "C"}},
	)
	s := derive(g)
	assert.ElementsMatch(t, []subpattern.ICD{
		{P: "P", C: "C", D: "S1"},
		{P: "P", C: "C", D: "S2"},
		{P: "P", C: "C", D: "S3"},
	}, s.ICD)
}

func TestCIRejectsSelfPairAndDedupsSymmetrically(t *testing.T) {
	g := relation.New([]relation.InheritanceEdge{
		{Parent: "P", Child: "A"},
		{Parent: "P", Child: "B"},
		{Parent: "P", Child: "A"},
	}, nil, nil, nil)
	s := derive(g)
	assert.Len(t, s.CI, 1)
	assert.True(t, s.CI[0].Has("A"))
	assert.True(t, s.CI[0].Has("B"))
}

func TestSASSExcludesSAGG(t *testing.T) {
	g := relation.New(nil,
		[]relation.AssociationEdge{{Holder: "X", Target: "X"}, {Holder: "Y", Target: "Y"}},
		[]relation.AggregationEdge{{Whole: "Y", Part: "Y"}},
		nil,
	)
	s := derive(g)
	assert.Equal(t, []subpattern.SASS{{X: "X"}}, s.SASS)
	assert.Equal(t, []subpattern.SAGG{{X: "Y"}}, s.SAGG)
}

func TestSingleInheritanceEdgeLeavesSecondaryJoinsEmpty(t *testing.T) {
	g := relation.New([]relation.InheritanceEdge{{Parent: "P", Child: "C"}}, nil, nil, nil)
	s := derive(g)
	assert.Empty(t, s.CI)
	assert.Empty(t, s.IAGG)
	assert.Empty(t, s.ICA)
	assert.Empty(t, s.MLI)
}

func TestIIAGGJoinsThreeGenerations(t *testing.T) {
	g := relation.New(
		[]relation.InheritanceEdge{{Parent: "P", Child: "C"}, {Parent: "C", Child: "GC"}},
		nil,
		[]relation.AggregationEdge{{Whole: "GC", Part: "P"}},
		nil,
	)
	s := derive(g)
	assert.Equal(t, []subpattern.IIAGG{{P: "P", C: "C", GC: "GC"}}, s.IIAGG)
}
