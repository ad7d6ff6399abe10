package subpattern

import (
	"sort"

	"github.com/dmrimawi/patroid/relation"
)

// Engine derives sub-pattern sets from a relation graph. It holds no state
// between calls; Derive is a pure function of its argument.
type Engine struct{}

// NewEngine constructs a sub-pattern engine. There is no configuration: the
// derivation rules are fixed by definition.
func NewEngine() *Engine { return &Engine{} }

// Derive computes all fifteen sub-pattern sets from g. A nil graph yields a
// zero-value Set and an empty graph a Set whose collections are all empty;
// neither is an error.
func (e *Engine) Derive(g *relation.Graph) Set {
	if g == nil {
		return Set{}
	}
	inh := g.Inheritance()
	assoc := g.Association()
	agg := g.Aggregation()
	dep := g.Dependency()

	idx := buildInheritanceIndex(inh)

	assocSet := toAssociationSet(assoc)
	aggSet := toAggregationSet(agg)

	var s Set
	s.ICA = deriveICA(inh, assocSet)
	s.CI = deriveCI(idx)
	s.IAGG = deriveIAGG(inh, aggSet)
	s.IPAG = deriveIPAG(idx, agg)
	s.MLI = deriveMLI(idx)
	s.IASS = deriveIASS(inh, assocSet)
	s.SAGG = deriveSAGG(agg)
	s.IIAGG = deriveIIAGG(idx, aggSet)
	s.SASS = deriveSASS(assoc, aggSet)
	s.ICD = deriveICD(idx, dep)
	s.DCI = deriveDCI(idx, dep)
	s.IPAS = deriveIPAS(inh, assoc)
	s.AGPI = deriveAGPI(inh, agg)
	s.IPD = deriveIPD(inh, dep)
	s.DPI = deriveDPI(idx, dep)
	return s
}

type pair struct{ A, B relation.ClassID }

func toAssociationSet(assoc []relation.AssociationEdge) map[pair]struct{} {
	m := make(map[pair]struct{}, len(assoc))
	for _, e := range assoc {
		m[pair{e.Holder, e.Target}] = struct{}{}
	}
	return m
}

func toAggregationSet(agg []relation.AggregationEdge) map[pair]struct{} {
	m := make(map[pair]struct{}, len(agg))
	for _, e := range agg {
		m[pair{e.Whole, e.Part}] = struct{}{}
	}
	return m
}

// deriveICA: p→c in I, (h,c) in A.
func deriveICA(inh []relation.InheritanceEdge, assocSet map[pair]struct{}) []ICA {
	var out []ICA
	for _, i := range inh {
		for ha := range assocSet {
			if ha.B == i.Child {
				out = append(out, ICA{P: i.Parent, C: i.Child, H: ha.A})
			}
		}
	}
	return dedupICA(out)
}

func dedupICA(in []ICA) []ICA {
	seen := make(map[ICA]struct{}, len(in))
	out := make([]ICA, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return lessICA(out[i], out[j]) })
	return out
}

func lessICA(a, b ICA) bool {
	if a.P != b.P {
		return a.P < b.P
	}
	if a.C != b.C {
		return a.C < b.C
	}
	return a.H < b.H
}

// deriveCI: siblings sharing a parent, canonicalized so each unordered
// {c1,c2} pair appears once per parent. This avoids the source's fragile
// mutate-while-iterating dedup loop.
func deriveCI(idx inheritanceIndex) []CI {
	type key struct{ P, C1, C2 relation.ClassID }
	seen := make(map[key]struct{})
	var out []CI
	for p, children := range idx.byParent {
		sorted := append([]relation.ClassID(nil), children...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for i := 0; i < len(sorted); i++ {
			for j := i + 1; j < len(sorted); j++ {
				if sorted[i] == sorted[j] {
					continue
				}
				k := key{p, sorted[i], sorted[j]}
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				out = append(out, CI{P: p, C1: sorted[i], C2: sorted[j]})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].P != out[j].P {
			return out[i].P < out[j].P
		}
		if out[i].C1 != out[j].C1 {
			return out[i].C1 < out[j].C1
		}
		return out[i].C2 < out[j].C2
	})
	return out
}

// deriveIAGG: (p,c) in both I and G.
func deriveIAGG(inh []relation.InheritanceEdge, aggSet map[pair]struct{}) []IAGG {
	var out []IAGG
	for _, i := range inh {
		if _, ok := aggSet[pair{i.Parent, i.Child}]; ok {
			out = append(out, IAGG{P: i.Parent, C: i.Child})
		}
	}
	return out
}

// deriveIPAG: (p,c) in I, (p,x) in G, x≠c.
func deriveIPAG(idx inheritanceIndex, agg []relation.AggregationEdge) []IPAG {
	var out []IPAG
	for _, a := range agg {
		for _, c := range idx.byParent[a.Whole] {
			if a.Part == c {
				continue
			}
			out = append(out, IPAG{P: a.Whole, C: c, X: a.Part})
		}
	}
	return out
}

// deriveMLI: grandparent→parent→child inheritance chains.
func deriveMLI(idx inheritanceIndex) []MLI {
	var out []MLI
	for g, parents := range idx.byParent {
		for _, p := range parents {
			for _, c := range idx.byParent[p] {
				out = append(out, MLI{G: g, P: p, C: c})
			}
		}
	}
	return out
}

// deriveIASS: (p,c) in I and (c,p) in A.
func deriveIASS(inh []relation.InheritanceEdge, assocSet map[pair]struct{}) []IASS {
	var out []IASS
	for _, i := range inh {
		if _, ok := assocSet[pair{i.Child, i.Parent}]; ok {
			out = append(out, IASS{P: i.Parent, C: i.Child})
		}
	}
	return out
}

// deriveSAGG: self-aggregation (x,x) in G.
func deriveSAGG(agg []relation.AggregationEdge) []SAGG {
	var out []SAGG
	for _, a := range agg {
		if a.Whole == a.Part {
			out = append(out, SAGG{X: a.Whole})
		}
	}
	return out
}

// deriveIIAGG: (p,c) and (c,gc) in I, (gc,p) in G.
func deriveIIAGG(idx inheritanceIndex, aggSet map[pair]struct{}) []IIAGG {
	var out []IIAGG
	for p, children := range idx.byParent {
		for _, c := range children {
			for _, gc := range idx.byParent[c] {
				if _, ok := aggSet[pair{gc, p}]; ok {
					out = append(out, IIAGG{P: p, C: c, GC: gc})
				}
			}
		}
	}
	return out
}

// deriveSASS computes self-association tuples minus SAGG: in one pass over
// A it skips every x whose (x,x) is in G, by a lookup in the precomputed
// aggregation set, so SAGG is never recomputed inside the loop (the
// explicit fix for the distilled source's in-loop recomputation).
func deriveSASS(assoc []relation.AssociationEdge, aggSet map[pair]struct{}) []SASS {
	var out []SASS
	for _, a := range assoc {
		if a.Holder != a.Target {
			continue
		}
		if _, ok := aggSet[pair{a.Holder, a.Target}]; ok {
			continue
		}
		out = append(out, SASS{X: a.Holder})
	}
	return out
}

// deriveICD: (p,c) in I, (d,c) in D.
func deriveICD(idx inheritanceIndex, dep []relation.DependencyEdge) []ICD {
	var out []ICD
	for _, d := range dep {
		for _, p := range idx.byChild[d.Used] {
			out = append(out, ICD{P: p, C: d.Used, D: d.User})
		}
	}
	return out
}

// deriveDCI: (p,c) in I, (c,d) in D.
func deriveDCI(idx inheritanceIndex, dep []relation.DependencyEdge) []DCI {
	var out []DCI
	for _, d := range dep {
		for _, p := range idx.byChild[d.User] {
			out = append(out, DCI{P: p, C: d.User, D: d.Used})
		}
	}
	return out
}

// deriveIPAS: (p,c) in I, (h,p) in A.
func deriveIPAS(inh []relation.InheritanceEdge, assoc []relation.AssociationEdge) []IPAS {
	var out []IPAS
	for _, i := range inh {
		for _, a := range assoc {
			if a.Target == i.Parent {
				out = append(out, IPAS{P: i.Parent, C: i.Child, H: a.Holder})
			}
		}
	}
	return out
}

// deriveAGPI: (p,c) in I, (w,p) in G.
func deriveAGPI(inh []relation.InheritanceEdge, agg []relation.AggregationEdge) []AGPI {
	var out []AGPI
	for _, i := range inh {
		for _, a := range agg {
			if a.Part == i.Parent {
				out = append(out, AGPI{P: i.Parent, C: i.Child, W: a.Whole})
			}
		}
	}
	return out
}

// deriveIPD: (p,c) in I, (d,p) in D.
func deriveIPD(inh []relation.InheritanceEdge, dep []relation.DependencyEdge) []IPD {
	var out []IPD
	for _, i := range inh {
		for _, d := range dep {
			if d.Used == i.Parent {
				out = append(out, IPD{P: i.Parent, C: i.Child, D: d.User})
			}
		}
	}
	return out
}

// deriveDPI: (p,c) in I, (p,t) in D.
func deriveDPI(idx inheritanceIndex, dep []relation.DependencyEdge) []DPI {
	var out []DPI
	for _, d := range dep {
		for _, c := range idx.byParent[d.User] {
			out = append(out, DPI{P: d.User, C: c, T: d.Used})
		}
	}
	return out
}
