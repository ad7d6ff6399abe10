// Package subpattern derives the fifteen named topological motifs that sit
// between the raw relation graph and design-pattern recognition.
//
// Every sub-pattern is a distinct tuple type (never an untyped []ClassID),
// so that the joins below are checked against their own shape by the
// compiler rather than by convention.
package subpattern

import "github.com/dmrimawi/patroid/relation"

// ICA is (p,c,h): p→c in Inheritance, and (h,c) in Association.
type ICA struct{ P, C, H relation.ClassID }

// ClassIDs returns ica's component classes, used to attribute an
// occurrence to a manifest entry-point's reachable-class closure.
func (ica ICA) ClassIDs() []relation.ClassID { return []relation.ClassID{ica.P, ica.C, ica.H} }

// CI is (p,c1,c2): (p,c1) and (p,c2) in Inheritance, c1≠c2. Canonical form
// orders c1<c2 lexicographically; each unordered sibling pair appears at
// most once per parent.
type CI struct{ P, C1, C2 relation.ClassID }

// Has reports whether x occupies either child slot of ci.
func (ci CI) Has(x relation.ClassID) bool { return ci.C1 == x || ci.C2 == x }

// ClassIDs returns ci's component classes.
func (ci CI) ClassIDs() []relation.ClassID { return []relation.ClassID{ci.P, ci.C1, ci.C2} }

// IAGG is (p,c): (p,c) in both Inheritance and Aggregation.
type IAGG struct{ P, C relation.ClassID }

// ClassIDs returns iagg's component classes.
func (iagg IAGG) ClassIDs() []relation.ClassID { return []relation.ClassID{iagg.P, iagg.C} }

// IPAG is (p,c,x): (p,c) in Inheritance and (p,x) in Aggregation, x≠c.
type IPAG struct{ P, C, X relation.ClassID }

// ClassIDs returns ipag's component classes.
func (ipag IPAG) ClassIDs() []relation.ClassID { return []relation.ClassID{ipag.P, ipag.C, ipag.X} }

// MLI is (g,p,c): a two-level inheritance chain g→p→c.
type MLI struct{ G, P, C relation.ClassID }

// ClassIDs returns mli's component classes.
func (mli MLI) ClassIDs() []relation.ClassID { return []relation.ClassID{mli.G, mli.P, mli.C} }

// IASS is (p,c): (p,c) in Inheritance and (c,p) in Association.
type IASS struct{ P, C relation.ClassID }

// ClassIDs returns iass's component classes.
func (iass IASS) ClassIDs() []relation.ClassID { return []relation.ClassID{iass.P, iass.C} }

// SAGG is (x): (x,x) in Aggregation.
type SAGG struct{ X relation.ClassID }

// ClassIDs returns sagg's component classes.
func (sagg SAGG) ClassIDs() []relation.ClassID { return []relation.ClassID{sagg.X} }

// IIAGG is (p,c,gc): (p,c) and (c,gc) in Inheritance, (gc,p) in Aggregation.
type IIAGG struct{ P, C, GC relation.ClassID }

// ClassIDs returns iiagg's component classes.
func (iiagg IIAGG) ClassIDs() []relation.ClassID {
	return []relation.ClassID{iiagg.P, iiagg.C, iiagg.GC}
}

// SASS is (x): (x,x) in Association and x is not in SAGG.
type SASS struct{ X relation.ClassID }

// ClassIDs returns sass's component classes.
func (sass SASS) ClassIDs() []relation.ClassID { return []relation.ClassID{sass.X} }

// ICD is (p,c,d): (p,c) in Inheritance and (d,c) in Dependency.
type ICD struct{ P, C, D relation.ClassID }

// ClassIDs returns icd's component classes.
func (icd ICD) ClassIDs() []relation.ClassID { return []relation.ClassID{icd.P, icd.C, icd.D} }

// DCI is (p,c,d): (p,c) in Inheritance and (c,d) in Dependency.
type DCI struct{ P, C, D relation.ClassID }

// ClassIDs returns dci's component classes.
func (dci DCI) ClassIDs() []relation.ClassID { return []relation.ClassID{dci.P, dci.C, dci.D} }

// IPAS is (p,c,h): (p,c) in Inheritance and (h,p) in Association.
type IPAS struct{ P, C, H relation.ClassID }

// ClassIDs returns ipas's component classes.
func (ipas IPAS) ClassIDs() []relation.ClassID { return []relation.ClassID{ipas.P, ipas.C, ipas.H} }

// AGPI is (p,c,w): (p,c) in Inheritance and (w,p) in Aggregation.
type AGPI struct{ P, C, W relation.ClassID }

// ClassIDs returns agpi's component classes.
func (agpi AGPI) ClassIDs() []relation.ClassID { return []relation.ClassID{agpi.P, agpi.C, agpi.W} }

// IPD is (p,c,d): (p,c) in Inheritance and (d,p) in Dependency.
type IPD struct{ P, C, D relation.ClassID }

// ClassIDs returns ipd's component classes.
func (ipd IPD) ClassIDs() []relation.ClassID { return []relation.ClassID{ipd.P, ipd.C, ipd.D} }

// DPI is (p,c,t): (p,c) in Inheritance and (p,t) in Dependency.
type DPI struct{ P, C, T relation.ClassID }

// ClassIDs returns dpi's component classes.
func (dpi DPI) ClassIDs() []relation.ClassID { return []relation.ClassID{dpi.P, dpi.C, dpi.T} }

// Set bundles all fifteen sub-pattern tuple collections derived from a
// single RelationGraph. A zero Set is empty, not invalid — C3 never fails.
type Set struct {
	ICA   []ICA
	CI    []CI
	IAGG  []IAGG
	IPAG  []IPAG
	MLI   []MLI
	IASS  []IASS
	SAGG  []SAGG
	IIAGG []IIAGG
	SASS  []SASS
	ICD   []ICD
	DCI   []DCI
	IPAS  []IPAS
	AGPI  []AGPI
	IPD   []IPD
	DPI   []DPI
}

// byParent indexes inheritance edges by parent, and byChild indexes them
// by child; both accelerate the joins below without requiring the caller
// to pre-index anything.
type inheritanceIndex struct {
	byParent map[relation.ClassID][]relation.ClassID
	byChild  map[relation.ClassID][]relation.ClassID
}

func buildInheritanceIndex(edges []relation.InheritanceEdge) inheritanceIndex {
	idx := inheritanceIndex{
		byParent: make(map[relation.ClassID][]relation.ClassID),
		byChild:  make(map[relation.ClassID][]relation.ClassID),
	}
	for _, e := range edges {
		idx.byParent[e.Parent] = append(idx.byParent[e.Parent], e.Child)
		idx.byChild[e.Child] = append(idx.byChild[e.Child], e.Parent)
	}
	return idx
}
