// Package relation defines the typed inter-class relation graph that the
// rest of patroid's recognition pipeline operates on.
//
// A Graph is an immutable container of four disjoint relation sets over a
// class-name universe: inheritance, association, aggregation, and
// dependency. It is built once from a SourceExtractor (or deserialized from
// a module file) and never mutated afterward; every downstream stage
// (subpattern, pattern) treats it as read-only input.
package relation

import "sort"

// ClassID identifies a class by its flattened, namespace-free name. Two
// ClassIDs are equal iff their string forms are equal; scoping is the
// extractor's concern, not the graph's.
type ClassID string

// InheritanceEdge records that Child extends Parent.
type InheritanceEdge struct {
	Parent ClassID
	Child  ClassID
}

// AssociationEdge records that Holder has a field typed by, or a method
// returning, Target.
type AssociationEdge struct {
	Holder ClassID
	Target ClassID
}

// AggregationEdge records that Whole has an immutable/final field typed by
// Part. Aggregation is not a subset of association; the two sets are
// populated independently by the extractor.
type AggregationEdge struct {
	Whole ClassID
	Part  ClassID
}

// DependencyEdge records that User invokes a static method on, or receives
// as a method parameter an instance of, Used.
type DependencyEdge struct {
	User ClassID
	Used ClassID
}

// Graph is an immutable, structurally-comparable collection of the four
// relation sets. Construct one with New; there is no mutator.
type Graph struct {
	inheritance []InheritanceEdge
	association []AssociationEdge
	aggregation []AggregationEdge
	dependency  []DependencyEdge
}

// New builds a Graph from the given edges, deduplicating each relation set
// and fixing a deterministic iteration order. Edge orientation is taken
// as given; New performs no validation beyond deduplication, since the
// class universe is derived from the edges themselves (every component of
// every edge is, by construction, a member of U).
func New(inheritance []InheritanceEdge, association []AssociationEdge, aggregation []AggregationEdge, dependency []DependencyEdge) *Graph {
	return &Graph{
		inheritance: dedupInheritance(inheritance),
		association: dedupAssociation(association),
		aggregation: dedupAggregation(aggregation),
		dependency:  dedupDependency(dependency),
	}
}

// Inheritance returns the deduplicated, sorted set of inheritance edges.
func (g *Graph) Inheritance() []InheritanceEdge { return g.inheritance }

// Association returns the deduplicated, sorted set of association edges.
func (g *Graph) Association() []AssociationEdge { return g.association }

// Aggregation returns the deduplicated, sorted set of aggregation edges.
func (g *Graph) Aggregation() []AggregationEdge { return g.aggregation }

// Dependency returns the deduplicated, sorted set of dependency edges.
func (g *Graph) Dependency() []DependencyEdge { return g.dependency }

// Classes returns the class universe U = the set of classes appearing as
// an endpoint of any relation, sorted for deterministic output.
func (g *Graph) Classes() []ClassID {
	seen := make(map[ClassID]struct{})
	for _, e := range g.inheritance {
		seen[e.Parent] = struct{}{}
		seen[e.Child] = struct{}{}
	}
	for _, e := range g.association {
		seen[e.Holder] = struct{}{}
		seen[e.Target] = struct{}{}
	}
	for _, e := range g.aggregation {
		seen[e.Whole] = struct{}{}
		seen[e.Part] = struct{}{}
	}
	for _, e := range g.dependency {
		seen[e.User] = struct{}{}
		seen[e.Used] = struct{}{}
	}
	classes := make([]ClassID, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// Equal reports whether g and other hold the same four relation sets,
// ignoring iteration order. Used by the module-file round-trip tests.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	return equalInheritance(g.inheritance, other.inheritance) &&
		equalAssociation(g.association, other.association) &&
		equalAggregation(g.aggregation, other.aggregation) &&
		equalDependency(g.dependency, other.dependency)
}

func dedupInheritance(edges []InheritanceEdge) []InheritanceEdge {
	seen := make(map[InheritanceEdge]struct{}, len(edges))
	out := make([]InheritanceEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Parent != out[j].Parent {
			return out[i].Parent < out[j].Parent
		}
		return out[i].Child < out[j].Child
	})
	return out
}

func dedupAssociation(edges []AssociationEdge) []AssociationEdge {
	seen := make(map[AssociationEdge]struct{}, len(edges))
	out := make([]AssociationEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Holder != out[j].Holder {
			return out[i].Holder < out[j].Holder
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func dedupAggregation(edges []AggregationEdge) []AggregationEdge {
	seen := make(map[AggregationEdge]struct{}, len(edges))
	out := make([]AggregationEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Whole != out[j].Whole {
			return out[i].Whole < out[j].Whole
		}
		return out[i].Part < out[j].Part
	})
	return out
}

func dedupDependency(edges []DependencyEdge) []DependencyEdge {
	seen := make(map[DependencyEdge]struct{}, len(edges))
	out := make([]DependencyEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].User != out[j].User {
			return out[i].User < out[j].User
		}
		return out[i].Used < out[j].Used
	})
	return out
}

func equalInheritance(a, b []InheritanceEdge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalAssociation(a, b []AssociationEdge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalAggregation(a, b []AggregationEdge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalDependency(a, b []DependencyEdge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
