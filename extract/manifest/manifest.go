// Package manifest parses an XML application manifest into
// extract.ManifestInfo, grounded on the distilled project's original
// ManifestParser: entry-point activities, their LAUNCHER/DEFAULT category,
// and the set of classes reachable from each entry-point. Reachability is
// computed with an explicit visited set to a fixpoint, fixing the
// original's unbounded recursion over cyclic relation graphs.
package manifest

import (
	"encoding/xml"
	"os"
	"sort"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/relation"
)

type xmlManifest struct {
	XMLName     xml.Name        `xml:"manifest"`
	Application xmlApplication  `xml:"application"`
}

type xmlApplication struct {
	Activities []xmlActivity `xml:"activity"`
}

type xmlActivity struct {
	Name          string            `xml:"name,attr"`
	IntentFilters []xmlIntentFilter `xml:"intent-filter"`
}

type xmlIntentFilter struct {
	Categories []xmlCategory `xml:"category"`
}

type xmlCategory struct {
	Name string `xml:"name,attr"`
}

const (
	categoryLauncher = "LAUNCHER"
	categoryDefault  = "DEFAULT"
)

// Parse reads the manifest at path and resolves each declared activity's
// reachable class set against g.
func Parse(path string, g *relation.Graph) (*extract.ManifestInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.NoManifest, "reading manifest file", err)
	}

	var doc xmlManifest
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Wrap(apperr.MalformedGraph, "parsing manifest XML", err)
	}

	reach := buildReachabilityIndex(g)

	info := &extract.ManifestInfo{}
	for _, a := range doc.Application.Activities {
		if a.Name == "" {
			continue
		}
		info.EntryPoints = append(info.EntryPoints, extract.EntryPoint{
			Name:     a.Name,
			Category: categoryOf(a),
			Classes:  reach.reachableFrom(relation.ClassID(a.Name)),
		})
	}
	return info, nil
}

// categoryOf returns "LAUNCHER" if any intent-filter category matches the
// LAUNCHER category, else "DEFAULT" if any matches DEFAULT, else "".
func categoryOf(a xmlActivity) string {
	sawDefault := false
	for _, f := range a.IntentFilters {
		for _, c := range f.Categories {
			switch c.Name {
			case "android.intent.category.LAUNCHER":
				return categoryLauncher
			case "android.intent.category.DEFAULT":
				sawDefault = true
			}
		}
	}
	if sawDefault {
		return categoryDefault
	}
	return ""
}

// reachabilityIndex adjacency is the union of association, aggregation,
// and dependency edges (inheritance is excluded: a manifest entry-point's
// "related classes" are its collaborators, not its supertypes).
type reachabilityIndex struct {
	adjacency map[relation.ClassID][]relation.ClassID
}

func buildReachabilityIndex(g *relation.Graph) reachabilityIndex {
	idx := reachabilityIndex{adjacency: make(map[relation.ClassID][]relation.ClassID)}
	if g == nil {
		return idx
	}
	for _, e := range g.Association() {
		idx.adjacency[e.Holder] = append(idx.adjacency[e.Holder], e.Target)
	}
	for _, e := range g.Aggregation() {
		idx.adjacency[e.Whole] = append(idx.adjacency[e.Whole], e.Part)
	}
	for _, e := range g.Dependency() {
		idx.adjacency[e.User] = append(idx.adjacency[e.User], e.Used)
	}
	return idx
}

// reachableFrom computes the fixpoint closure of start's collaborators
// using an explicit visited set, terminating when no new class is added —
// the distilled source's get_classes_related_to_activity recursed without
// such a bound and could not terminate on a cyclic graph.
func (idx reachabilityIndex) reachableFrom(start relation.ClassID) []relation.ClassID {
	visited := map[relation.ClassID]struct{}{start: {}}
	queue := []relation.ClassID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range idx.adjacency[cur] {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	delete(visited, start)
	out := make([]relation.ClassID, 0, len(visited))
	for c := range visited {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
