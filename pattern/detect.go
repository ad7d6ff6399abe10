package pattern

import (
	"strconv"

	"github.com/dmrimawi/patroid/subpattern"
)

func detectSingleton(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, sass := range sets.SASS {
		out = append(out, Occurrence{Pattern: Singleton, Witnesses: map[string]any{"SASS": sass}})
	}
	return dedupOccurrences(out)
}

func detectTemplate(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ci := range sets.CI {
		out = append(out, Occurrence{Pattern: Template, Witnesses: map[string]any{"CI": ci}})
	}
	return dedupOccurrences(out)
}

// detectComposite matches three independent shapes: direct self-aggregation,
// a CI/IAGG pairing, and a CI/IIAGG pairing (the spec's corrected storage —
// the distilled source kept the IAGG tuple under the IIAGG case by mistake).
func detectComposite(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, sagg := range sets.SAGG {
		out = append(out, Occurrence{Pattern: Composite, Witnesses: map[string]any{"SAGG": sagg}})
	}
	for _, ci := range sets.CI {
		for _, iagg := range sets.IAGG {
			chosen := iagg.P
			if iagg.P == ci.P {
				chosen = iagg.C
			}
			if ci.Has(chosen) {
				out = append(out, Occurrence{Pattern: Composite, Witnesses: map[string]any{"CI": ci, "IAGG": iagg}})
			}
		}
		for _, iiagg := range sets.IIAGG {
			if ci.Has(iiagg.GC) {
				out = append(out, Occurrence{Pattern: Composite, Witnesses: map[string]any{"CI": ci, "IIAGG": iiagg}})
			}
		}
	}
	return dedupOccurrences(out)
}

func detectAdapter(sets subpattern.Set) []Occurrence {
	ciSet := make(map[subpattern.CI]struct{}, len(sets.CI))
	for _, ci := range sets.CI {
		ciSet[ci] = struct{}{}
	}
	var out []Occurrence
	for _, ica := range sets.ICA {
		// CI is symmetric in its two child slots, so both orderings of
		// ica's child/holder pair must be checked against the canonical
		// (C1<C2) CI set.
		_, asIs := ciSet[subpattern.CI{P: ica.P, C1: ica.C, C2: ica.H}]
		_, swapped := ciSet[subpattern.CI{P: ica.P, C1: ica.H, C2: ica.C}]
		if asIs || swapped {
			continue
		}
		out = append(out, Occurrence{Pattern: Adapter, Witnesses: map[string]any{"ICA": ica}})
	}
	return dedupOccurrences(out)
}

// detectBridge requires ci's parent to equal ipag's third slot and neither
// CI child to appear anywhere in ipag — both conjuncts checked explicitly,
// not via the source's precedence-ambiguous "x and y in S" idiom.
func detectBridge(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ci := range sets.CI {
		for _, ipag := range sets.IPAG {
			if ci.P != ipag.X {
				continue
			}
			if ci.C1 == ipag.P || ci.C1 == ipag.C || ci.C1 == ipag.X {
				continue
			}
			if ci.C2 == ipag.P || ci.C2 == ipag.C || ci.C2 == ipag.X {
				continue
			}
			out = append(out, Occurrence{Pattern: Bridge, Witnesses: map[string]any{"CI": ci, "IPAG": ipag}})
		}
	}
	return dedupOccurrences(out)
}

// detectProxy restates the source's always-truthy `proxy or real_subject in
// (iass[1])` branch as the intended "one of the two equals iass[1]" check.
func detectProxy(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ci := range sets.CI {
		s, rs, px := ci.P, ci.C1, ci.C2
		for _, ica := range sets.ICA {
			if ica.P != s {
				continue
			}
			if (ica.C == rs && ica.H == px) || (ica.C == px && ica.H == rs) {
				out = append(out, Occurrence{Pattern: Proxy, Witnesses: map[string]any{"CI": ci, "ICA": ica}})
			}
		}
		for _, iass := range sets.IASS {
			if iass.P != s {
				continue
			}
			if iass.C == rs || iass.C == px {
				out = append(out, Occurrence{Pattern: Proxy, Witnesses: map[string]any{"CI": ci, "IASS": iass}})
			}
		}
	}
	return dedupOccurrences(out)
}

func detectDecorator(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, mli := range sets.MLI {
		comp, dec := mli.G, mli.P
		for _, ci := range sets.CI {
			if ci.P != comp || !ci.Has(dec) {
				continue
			}
			for _, iagg := range sets.IAGG {
				if iagg.P == comp && iagg.C == dec {
					out = append(out, Occurrence{Pattern: Decorator, Witnesses: map[string]any{
						"MLI": mli, "CI": ci, "IAGG": iagg,
					}})
				}
			}
		}
	}
	return dedupOccurrences(out)
}

func detectFlyweight(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ci := range sets.CI {
		for _, agpi := range sets.AGPI {
			if agpi.P != ci.P {
				continue
			}
			if !ci.Has(agpi.C) {
				continue
			}
			if ci.Has(agpi.W) {
				continue
			}
			out = append(out, Occurrence{Pattern: Flyweight, Witnesses: map[string]any{"CI": ci, "AGPI": agpi}})
		}
	}
	return dedupOccurrences(out)
}

// detectFacade groups ICD tuples by their shared (p,c) pair and emits one
// occurrence when three or more distinct dependents share it.
func detectFacade(sets subpattern.Set) []Occurrence {
	type pc struct{ P, C string }
	groups := make(map[pc][]subpattern.ICD)
	for _, icd := range sets.ICD {
		k := pc{string(icd.P), string(icd.C)}
		groups[k] = append(groups[k], icd)
	}
	var out []Occurrence
	for _, tuples := range groups {
		distinctD := make(map[string]subpattern.ICD)
		for _, t := range tuples {
			distinctD[string(t.D)] = t
		}
		if len(distinctD) < 3 {
			continue
		}
		witnesses := make(map[string]any, len(distinctD))
		i := 0
		for _, t := range distinctD {
			witnesses[icdKey(i)] = t
			i++
		}
		out = append(out, Occurrence{Pattern: Facade, Witnesses: witnesses})
	}
	return dedupOccurrences(out)
}

func icdKey(i int) string {
	return "ICD" + strconv.Itoa(i)
}

func detectAbstractFactory(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, icd := range sets.ICD {
		ap, cf, pa := icd.P, icd.C, icd.D
		for _, dci := range sets.DCI {
			if dci.D != cf {
				continue
			}
			pb := dci.C
			for _, ci := range sets.CI {
				if ci.P != ap {
					continue
				}
				if ci.Has(pa) && ci.Has(pb) {
					out = append(out, Occurrence{Pattern: AbstractFactory, Witnesses: map[string]any{
						"ICD": icd, "DCI": dci, "CI": ci,
					}})
				}
			}
		}
	}
	return dedupOccurrences(out)
}

func detectBuilder(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ica := range sets.ICA {
		b, cb, pr := ica.P, ica.C, ica.H
		for _, agpi := range sets.AGPI {
			if agpi.P != b || agpi.C != cb {
				continue
			}
			if agpi.W == pr {
				continue
			}
			out = append(out, Occurrence{Pattern: Builder, Witnesses: map[string]any{"ICA": ica, "AGPI": agpi}})
		}
	}
	return dedupOccurrences(out)
}

func detectFactory(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, dci := range sets.DCI {
		cp, cc := dci.C, dci.D
		for _, icd := range sets.ICD {
			if icd.C != cc || icd.D != cp {
				continue
			}
			if icd.P == dci.P || icd.P == dci.C || icd.P == dci.D {
				continue
			}
			out = append(out, Occurrence{Pattern: Factory, Witnesses: map[string]any{"DCI": dci, "ICD": icd}})
		}
	}
	return dedupOccurrences(out)
}

func detectPrototype(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, agpi := range sets.AGPI {
		pr, cpa, x := agpi.P, agpi.C, agpi.W
		for _, ci := range sets.CI {
			if ci.P != pr || !ci.Has(cpa) {
				continue
			}
			if ci.P == x || ci.Has(x) {
				continue
			}
			out = append(out, Occurrence{Pattern: Prototype, Witnesses: map[string]any{"AGPI": agpi, "CI": ci}})
		}
	}
	return dedupOccurrences(out)
}

func detectChainOfResponsibility(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, sass := range sets.SASS {
		for _, ci := range sets.CI {
			if sass.X == ci.P {
				out = append(out, Occurrence{Pattern: ChainOfResponsibility, Witnesses: map[string]any{
					"SASS": sass, "CI": ci,
				}})
			}
		}
	}
	return dedupOccurrences(out)
}

func detectCommand(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, agpi := range sets.AGPI {
		cm, ccm, x := agpi.P, agpi.C, agpi.W
		for _, ica := range sets.ICA {
			if ica.P != cm || ica.C != ccm {
				continue
			}
			if ica.H == x {
				continue
			}
			out = append(out, Occurrence{Pattern: Command, Witnesses: map[string]any{"AGPI": agpi, "ICA": ica}})
		}
	}
	return dedupOccurrences(out)
}

func detectInterpreter(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, iagg := range sets.IAGG {
		ae, nt := iagg.P, iagg.C
		for _, ipd := range sets.IPD {
			if ipd.P != ae {
				continue
			}
			ct := ipd.D
			for _, ci := range sets.CI {
				if ci.P != ae || !ci.Has(nt) {
					continue
				}
				if ci.P == ct || ci.Has(ct) {
					continue
				}
				out = append(out, Occurrence{Pattern: Interpreter, Witnesses: map[string]any{
					"IAGG": iagg, "IPD": ipd, "CI": ci,
				}})
			}
		}
	}
	return dedupOccurrences(out)
}

func detectIterator(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ica := range sets.ICA {
		it, ciIt, cag := ica.P, ica.C, ica.H
		dciMatch := false
		for _, dci := range sets.DCI {
			if dci.P == it && dci.C == ciIt && dci.D == cag {
				dciMatch = true
				break
			}
		}
		if !dciMatch {
			continue
		}
		for _, icd := range sets.ICD {
			if icd.C != cag || icd.D != ciIt {
				continue
			}
			if icd.P == it || icd.P == ciIt || icd.P == cag {
				continue
			}
			out = append(out, Occurrence{Pattern: Iterator, Witnesses: map[string]any{"ICA": ica, "ICD": icd}})
		}
	}
	return dedupOccurrences(out)
}

func detectMediator(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, ica := range sets.ICA {
		med, cca := ica.P, ica.H
		for _, ipas := range sets.IPAS {
			if ipas.H != med {
				continue
			}
			col, ccb := ipas.P, ipas.C
			for _, ci := range sets.CI {
				if ci.P != col {
					continue
				}
				if ci.Has(cca) && ci.Has(ccb) {
					out = append(out, Occurrence{Pattern: Mediator, Witnesses: map[string]any{
						"ICA": ica, "IPAS": ipas, "CI": ci,
					}})
				}
			}
		}
	}
	return dedupOccurrences(out)
}

func detectMemento(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, agpi := range sets.AGPI {
		m, mi, x := agpi.P, agpi.C, agpi.W
		for _, dpi := range sets.DPI {
			if dpi.P != m || dpi.C != mi {
				continue
			}
			if dpi.T == x {
				continue
			}
			out = append(out, Occurrence{Pattern: Memento, Witnesses: map[string]any{"AGPI": agpi, "DPI": dpi}})
		}
	}
	return dedupOccurrences(out)
}

func detectObserver(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, icd := range sets.ICD {
		o, co, cs := icd.P, icd.C, icd.D
		for _, agpi := range sets.AGPI {
			if agpi.P != o || agpi.C != co {
				continue
			}
			if agpi.W == cs {
				continue
			}
			out = append(out, Occurrence{Pattern: Observer, Witnesses: map[string]any{"ICD": icd, "AGPI": agpi}})
		}
	}
	return dedupOccurrences(out)
}

func detectState(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, agpi := range sets.AGPI {
		s, cs := agpi.P, agpi.C
		for _, ci := range sets.CI {
			if ci.P != s || !ci.Has(cs) {
				continue
			}
			out = append(out, Occurrence{Pattern: State, Witnesses: map[string]any{"AGPI": agpi, "CI": ci}})
		}
	}
	return dedupOccurrences(out)
}

// detectStrategy shares State's exact structural shape — the two patterns
// are distinguished only by the designer's intent, not by topology.
func detectStrategy(sets subpattern.Set) []Occurrence {
	stateOccurrences := detectState(sets)
	out := make([]Occurrence, 0, len(stateOccurrences))
	for _, o := range stateOccurrences {
		out = append(out, Occurrence{Pattern: Strategy, Witnesses: o.Witnesses})
	}
	return out
}

func detectVisitor(sets subpattern.Set) []Occurrence {
	var out []Occurrence
	for _, icd := range sets.ICD {
		v, cv, ce := icd.P, icd.C, icd.D
		for _, dpi := range sets.DPI {
			if dpi.P != v || dpi.C != cv {
				continue
			}
			t := dpi.T
			for _, agpi := range sets.AGPI {
				if agpi.P == t && agpi.C == ce {
					out = append(out, Occurrence{Pattern: Visitor, Witnesses: map[string]any{
						"ICD": icd, "DPI": dpi, "AGPI": agpi,
					}})
				}
			}
		}
	}
	return dedupOccurrences(out)
}
