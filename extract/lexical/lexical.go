// Package lexical implements extract.Extractor for a C-family OO language
// (modeled on Java) using regular expressions over source text, matching
// the distilled project's original JavaFilesInfo/regex_handler approach:
// class/parent declarations, field declarations (final fields become
// aggregation), method signatures (return type becomes association,
// parameter types become dependency), and static method calls (also
// dependency).
package lexical

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/extract/manifest"
	"github.com/dmrimawi/patroid/relation"
)

var (
	classDeclRegex = regexp.MustCompile(`(?:public|private|protected)?\s*(?:abstract\s+|final\s+)?class\s+(\w+)(?:\s+extends\s+(\w+))?`)
	fieldRegex     = regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(static\s+)?(final\s+)?([A-Z]\w*)(?:<[^>]*>)?\s+(\w+)\s*(?:=[^;]*)?;`)
	methodRegex    = regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:static\s+)?(?:final\s+)?([A-Z]\w*)(?:<[^>]*>)?\s+(\w+)\s*\(([^)]*)\)\s*(?:\{|throws|$)`)
	paramTypeRegex = regexp.MustCompile(`([A-Z]\w*)(?:<[^>]*>)?\s+\w+`)
	staticCallRegex = regexp.MustCompile(`\b([A-Z]\w*)\.(\w+)\s*\(`)
)

// Extractor is a regex-lexical extract.Extractor for one source extension
// (".java" by default).
type Extractor struct {
	Extension string
	// Debug, when non-nil, receives one line per file as it is scanned.
	Debug io.Writer
}

// New constructs a lexical extractor for files with the given extension
// (including the leading dot). An empty extension defaults to ".java".
func New(extension string) *Extractor {
	if extension == "" {
		extension = ".java"
	}
	return &Extractor{Extension: extension}
}

// Discover walks root for source files matching the extractor's extension
// and for a manifest named "AndroidManifest.xml" or "manifest.xml"
// (case-insensitive) anywhere under root; when several match, the last
// one visited in walk order is used.
func (e *Extractor) Discover(root string) (extract.Discovery, error) {
	var d extract.Discovery
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(entry.Name(), "AndroidManifest.xml") || strings.EqualFold(entry.Name(), "manifest.xml") {
			d.ManifestFile = path
			return nil
		}
		if strings.HasSuffix(path, e.Extension) {
			d.SourceFiles = append(d.SourceFiles, path)
		}
		return nil
	})
	if err != nil {
		return extract.Discovery{}, apperr.Wrap(apperr.InternalError, "discovering sources under "+root, err)
	}
	sort.Strings(d.SourceFiles)
	return d, nil
}

// Extract reads every discovered source file, extracts class declarations
// and relations from each, and assembles the resulting RelationGraph.
func (e *Extractor) Extract(ctx context.Context, d extract.Discovery) (*relation.Graph, *extract.ManifestInfo, error) {
	if len(d.SourceFiles) == 0 {
		return nil, nil, apperr.New(apperr.NoSources, "no source files to extract")
	}

	var inheritance []relation.InheritanceEdge
	var association []relation.AssociationEdge
	var aggregation []relation.AggregationEdge
	var dependency []relation.DependencyEdge

	for _, path := range d.SourceFiles {
		select {
		case <-ctx.Done():
			return nil, nil, apperr.Wrap(apperr.InternalError, "extraction canceled", ctx.Err())
		default:
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.InternalError, fmt.Sprintf("reading %s", path), err)
		}

		className, parent, ok := classNameAndParent(string(content), path)
		if e.Debug != nil {
			fmt.Fprintf(e.Debug, "lexical: scanning %s -> class=%s parent=%s\n", path, className, parent)
		}
		if !ok {
			continue
		}
		if parent != "" {
			inheritance = append(inheritance, relation.InheritanceEdge{Parent: relation.ClassID(parent), Child: relation.ClassID(className)})
		}

		for _, line := range strings.Split(string(content), "\n") {
			if m := fieldRegex.FindStringSubmatch(line); m != nil {
				isFinal := m[2] != ""
				fieldType := m[3]
				association = append(association, relation.AssociationEdge{Holder: relation.ClassID(className), Target: relation.ClassID(fieldType)})
				if isFinal {
					aggregation = append(aggregation, relation.AggregationEdge{Whole: relation.ClassID(className), Part: relation.ClassID(fieldType)})
				}
				continue
			}
			if m := methodRegex.FindStringSubmatch(line); m != nil {
				returnType, params := m[1], m[3]
				if returnType != "void" {
					association = append(association, relation.AssociationEdge{Holder: relation.ClassID(className), Target: relation.ClassID(returnType)})
				}
				for _, pm := range paramTypeRegex.FindAllStringSubmatch(params, -1) {
					dependency = append(dependency, relation.DependencyEdge{User: relation.ClassID(className), Used: relation.ClassID(pm[1])})
				}
			}
			for _, call := range staticCallRegex.FindAllStringSubmatch(line, -1) {
				callee := call[1]
				if callee == className {
					continue
				}
				dependency = append(dependency, relation.DependencyEdge{User: relation.ClassID(className), Used: relation.ClassID(callee)})
			}
		}
	}

	g := relation.New(inheritance, association, aggregation, dependency)

	var info *extract.ManifestInfo
	if d.ManifestFile != "" {
		m, err := manifest.Parse(d.ManifestFile, g)
		if err != nil {
			return nil, nil, err
		}
		info = m
	}

	return g, info, nil
}

// classNameAndParent extracts the declared class name and, if present, its
// extends clause. When no class declaration is found, it falls back to the
// file's base name as the class name so association/dependency scanning
// still has a holder identity.
func classNameAndParent(content, path string) (className, parent string, ok bool) {
	if m := classDeclRegex.FindStringSubmatch(content); m != nil {
		return m[1], m[2], true
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return "", "", false
	}
	return name, "", true
}

