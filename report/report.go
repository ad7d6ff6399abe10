// Package report aggregates pattern occurrences by project and by
// manifest entry-point. It is a pure data structure; persistence lives in
// package store, not here.
package report

import (
	"github.com/google/uuid"

	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
)

// Report is the final output of one analysis run.
type Report struct {
	RunID        uuid.UUID
	Project      string
	Occurrences  map[string][]pattern.Occurrence
	ByEntryPoint map[string][]pattern.Occurrence
}

// Build aggregates occurrences for project, attributing each occurrence to
// every manifest entry-point whose reachable-class closure contains at
// least one of the occurrence's witness classes. manifest may be nil, in
// which case ByEntryPoint is empty.
func Build(runID uuid.UUID, project string, occurrences map[string][]pattern.Occurrence, manifest *extract.ManifestInfo) *Report {
	r := &Report{
		RunID:        runID,
		Project:      project,
		Occurrences:  occurrences,
		ByEntryPoint: make(map[string][]pattern.Occurrence),
	}
	if manifest == nil {
		return r
	}

	for _, ep := range manifest.EntryPoints {
		reachable := make(map[relation.ClassID]struct{}, len(ep.Classes))
		for _, c := range ep.Classes {
			reachable[c] = struct{}{}
		}
		for _, occs := range occurrences {
			for _, occ := range occs {
				if occurrenceTouches(occ, reachable) {
					r.ByEntryPoint[ep.Name] = append(r.ByEntryPoint[ep.Name], occ)
				}
			}
		}
	}
	return r
}

// occurrenceTouches reports whether any witness value embedded in occ is,
// or contains, a class in reachable.
func occurrenceTouches(occ pattern.Occurrence, reachable map[relation.ClassID]struct{}) bool {
	for _, class := range witnessClasses(occ) {
		if _, ok := reachable[class]; ok {
			return true
		}
	}
	return false
}

// witnessClasses extracts every relation.ClassID embedded in occ's
// witnesses via the ClassIDs method each sub-pattern tuple type exposes.
func witnessClasses(occ pattern.Occurrence) []relation.ClassID {
	var out []relation.ClassID
	for _, w := range occ.Witnesses {
		if cc, ok := w.(classCarrier); ok {
			out = append(out, cc.ClassIDs()...)
		}
	}
	return out
}

// classCarrier is satisfied by every sub-pattern tuple type in package
// subpattern via its ClassIDs method.
type classCarrier interface {
	ClassIDs() []relation.ClassID
}
