// Package driver orchestrates a single project's analysis pipeline
// (extraction → sub-patterns → patterns → report) and batch runs over a
// directory of sibling projects, tolerating per-project failure.
package driver

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/modulefile"
	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
	"github.com/dmrimawi/patroid/report"
	"github.com/dmrimawi/patroid/subpattern"
)

// Driver wires C2 (extraction) through C5 (report) for one or many
// projects. It holds no per-run state; each AnalyzeProject call is
// independent and reads no shared mutable state.
type Driver struct {
	Extractor extract.Extractor
	// Workers bounds batch-mode concurrency. Zero means runtime.NumCPU().
	Workers int
}

// New constructs a Driver around the given extractor.
func New(extractor extract.Extractor) *Driver {
	return &Driver{Extractor: extractor}
}

// AnalyzeProject runs the full pipeline for one project. Exactly one of
// root or moduleFile may be used as the graph source per §6: when
// moduleFile is non-empty and root is empty, the graph is read from
// moduleFile and extraction is skipped; otherwise root is discovered and
// extracted, and the result is written to moduleFile when moduleFile is
// also given.
func (d *Driver) AnalyzeProject(ctx context.Context, root, moduleFile string) (*report.Report, error) {
	var g *relation.Graph
	var manifest *extract.ManifestInfo

	switch {
	case root == "" && moduleFile != "":
		f, err := os.Open(moduleFile)
		if err != nil {
			return nil, apperr.Wrap(apperr.MalformedGraph, "opening module file", err)
		}
		defer f.Close()
		g, manifest, err = modulefile.Read(f)
		if err != nil {
			return nil, err
		}
	case root != "":
		discovery, err := d.Extractor.Discover(root)
		if err != nil {
			return nil, err
		}
		if len(discovery.SourceFiles) == 0 {
			return nil, apperr.New(apperr.NoSources, "project has no analyzable source files: "+root)
		}
		if discovery.ManifestFile == "" {
			return nil, apperr.New(apperr.NoManifest, "project has no manifest: "+root)
		}
		g, manifest, err = d.Extractor.Extract(ctx, discovery)
		if err != nil {
			return nil, err
		}
		if moduleFile != "" {
			out, err := os.Create(moduleFile)
			if err != nil {
				return nil, apperr.Wrap(apperr.InternalError, "creating module file", err)
			}
			defer out.Close()
			if err := modulefile.Write(out, g, manifest); err != nil {
				return nil, err
			}
		}
	default:
		return nil, apperr.New(apperr.InputMissing, "neither a project path nor a module file was supplied")
	}

	sets := subpattern.NewEngine().Derive(g)
	occurrences := pattern.NewDetector().Detect(sets)

	project := projectName(root, moduleFile)
	return report.Build(uuid.New(), project, occurrences, manifest), nil
}

func projectName(root, moduleFile string) string {
	if root != "" {
		return filepath.Base(root)
	}
	return filepath.Base(moduleFile)
}

// BatchResult pairs a project's report with the error that prevented it,
// exactly one of which is non-nil.
type BatchResult struct {
	Project string
	Report  *report.Report
	Err     error
}

// AnalyzeBatch treats every immediate subdirectory of dir as an
// independent project. A failing project is logged and skipped; the
// driver proceeds to the rest. Projects are analyzed concurrently, bounded
// by Workers (default runtime.NumCPU()), since each run reads no shared
// state and releases its graph once its report is built.
func (d *Driver) AnalyzeBatch(ctx context.Context, dir string) ([]BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalError, "reading batch directory "+dir, err)
	}

	var projects []string
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, filepath.Join(dir, e.Name()))
		}
	}

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(projects) {
		workers = len(projects)
	}
	if workers == 0 {
		return nil, nil
	}

	results := make([]BatchResult, len(projects))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, root := range projects {
		wg.Add(1)
		go func(i int, root string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			r, err := d.AnalyzeProject(ctx, root, "")
			name := filepath.Base(root)
			if err != nil {
				logProjectFailure(name, err)
				results[i] = BatchResult{Project: name, Err: err}
				return
			}
			results[i] = BatchResult{Project: name, Report: r}
		}(i, root)
	}
	wg.Wait()

	return results, nil
}

func logProjectFailure(project string, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		slog.Warn("project analysis skipped", "project", project, "kind", appErr.Kind.String(), "message", appErr.Message)
		return
	}
	slog.Error("project analysis failed", "project", project, "error", err)
}
