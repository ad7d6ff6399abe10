// Package extract defines the SourceExtractor contract: the external
// collaborator that turns a project root into a RelationGraph and manifest
// metadata. The core recognition pipeline depends only on this interface;
// extract/lexical and extract/manifest provide one concrete implementation.
package extract

import (
	"context"

	"github.com/dmrimawi/patroid/relation"
)

// Discovery is the result of a filesystem discovery pass: the set of
// source files to lex and, optionally, the manifest file to parse.
type Discovery struct {
	SourceFiles  []string
	ManifestFile string // empty if the project has no manifest
}

// EntryPoint names a manifest-designated class along with its category and
// the classes reachable from it, used only to attribute findings.
type EntryPoint struct {
	Name     string
	Category string // "LAUNCHER", "DEFAULT", or ""
	Classes  []relation.ClassID
}

// ManifestInfo is the ordered list of entry-points declared by a project's
// manifest.
type ManifestInfo struct {
	EntryPoints []EntryPoint
}

// Extractor discovers source files and a manifest under a project root,
// then extracts a RelationGraph and ManifestInfo from them. Extraction
// uses lexical pattern matching; the exact regular expressions are an
// implementation detail of the concrete extractor, not part of this
// contract.
type Extractor interface {
	Discover(root string) (Discovery, error)
	Extract(ctx context.Context, d Discovery) (*relation.Graph, *ManifestInfo, error)
}
