// Package modulefile serializes and deserializes the intermediate relation
// graph and manifest info to the tree-structured XML format used to hand
// results between a discovery pass and a later recognition pass, or to
// cache extraction output across runs. The tree shape mirrors the
// distilled project's original CreateRelationsModule output exactly,
// including its load-bearing ci/cj attribute orientation per relation
// kind.
package modulefile

import (
	"encoding/xml"
	"io"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/relation"
)

type xmlEdge struct {
	CI string `xml:"ci,attr"`
	CJ string `xml:"cj,attr"`
}

type xmlRelationGroup struct {
	Edges []xmlEdge `xml:"relation"`
}

type xmlRelatedActivity struct {
	Name string `xml:"name,attr"`
}

type xmlRelatedClasses struct {
	Activities []xmlRelatedActivity `xml:"activity"`
}

type xmlManifestActivity struct {
	Name          string            `xml:"name,attr"`
	Category      string            `xml:"category,attr"`
	RelatedClasses xmlRelatedClasses `xml:"related_classes"`
}

type xmlManifest struct {
	Activities []xmlManifestActivity `xml:"activity"`
}

type xmlRoot struct {
	XMLName     xml.Name         `xml:"root"`
	Depends     xmlRelationGroup `xml:"depends"`
	Association xmlRelationGroup `xml:"association"`
	Aggregation xmlRelationGroup `xml:"aggregation"`
	Inheritance xmlRelationGroup `xml:"inheritance"`
	Manifest    xmlManifest      `xml:"manifest"`
}

// Write serializes g and m (m may be nil) to w in the §6 tree format.
func Write(w io.Writer, g *relation.Graph, m *extract.ManifestInfo) error {
	root := xmlRoot{}

	for _, e := range g.Dependency() {
		root.Depends.Edges = append(root.Depends.Edges, xmlEdge{CI: string(e.User), CJ: string(e.Used)})
	}
	for _, e := range g.Association() {
		root.Association.Edges = append(root.Association.Edges, xmlEdge{CI: string(e.Holder), CJ: string(e.Target)})
	}
	for _, e := range g.Aggregation() {
		root.Aggregation.Edges = append(root.Aggregation.Edges, xmlEdge{CI: string(e.Whole), CJ: string(e.Part)})
	}
	for _, e := range g.Inheritance() {
		root.Inheritance.Edges = append(root.Inheritance.Edges, xmlEdge{CI: string(e.Parent), CJ: string(e.Child)})
	}

	if m != nil {
		for _, ep := range m.EntryPoints {
			activity := xmlManifestActivity{Name: ep.Name, Category: ep.Category}
			for _, c := range ep.Classes {
				activity.RelatedClasses.Activities = append(activity.RelatedClasses.Activities, xmlRelatedActivity{Name: string(c)})
			}
			root.Manifest.Activities = append(root.Manifest.Activities, activity)
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return apperr.Wrap(apperr.InternalError, "writing module file header", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return apperr.Wrap(apperr.InternalError, "encoding module file", err)
	}
	return nil
}

// Read deserializes a relation graph and manifest info from r.
func Read(r io.Reader) (*relation.Graph, *extract.ManifestInfo, error) {
	var root xmlRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, nil, apperr.Wrap(apperr.MalformedGraph, "decoding module file", err)
	}

	var dependency []relation.DependencyEdge
	for _, e := range root.Depends.Edges {
		dependency = append(dependency, relation.DependencyEdge{User: relation.ClassID(e.CI), Used: relation.ClassID(e.CJ)})
	}
	var association []relation.AssociationEdge
	for _, e := range root.Association.Edges {
		association = append(association, relation.AssociationEdge{Holder: relation.ClassID(e.CI), Target: relation.ClassID(e.CJ)})
	}
	var aggregation []relation.AggregationEdge
	for _, e := range root.Aggregation.Edges {
		aggregation = append(aggregation, relation.AggregationEdge{Whole: relation.ClassID(e.CI), Part: relation.ClassID(e.CJ)})
	}
	var inheritance []relation.InheritanceEdge
	for _, e := range root.Inheritance.Edges {
		inheritance = append(inheritance, relation.InheritanceEdge{Parent: relation.ClassID(e.CI), Child: relation.ClassID(e.CJ)})
	}

	g := relation.New(inheritance, association, aggregation, dependency)

	var info *extract.ManifestInfo
	if len(root.Manifest.Activities) > 0 {
		info = &extract.ManifestInfo{}
		for _, a := range root.Manifest.Activities {
			ep := extract.EntryPoint{Name: a.Name, Category: a.Category}
			for _, c := range a.RelatedClasses.Activities {
				ep.Classes = append(ep.Classes, relation.ClassID(c.Name))
			}
			info.EntryPoints = append(info.EntryPoints, ep)
		}
	}

	return g, info, nil
}
