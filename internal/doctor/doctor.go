// Package doctor provides health checks for a patroid environment: that a
// configured project path actually has analyzable sources and a manifest,
// that a module file's destination is writable, and that an optional
// report store is reachable.
//
// Example usage:
//
//	d := doctor.New(lexical.New(".java"), pgStore)
//	report := d.Run(ctx, cfg)
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/internal/cli"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue that will cause analysis to fail.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	Category string
	Name     string
	Status   Status
	Message  string
	Details  string
	FixHint  string
}

// Report contains all health check results.
type Report struct {
	Checks   []CheckResult
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to w, grouped by category.
func (r *Report) Print(w io.Writer, verbose bool) {
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", check.Status.Symbol(), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n", r.Passed, r.Warnings, r.Errors)
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// StorePinger is satisfied by store.Postgres; kept as an interface so the
// doctor package does not need to import pgx directly.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Doctor performs health checks on a patroid environment.
type Doctor struct {
	extractor extract.Extractor
	store     StorePinger
}

// New creates a Doctor. store may be nil when no report store is configured.
func New(extractor extract.Extractor, store StorePinger) *Doctor {
	return &Doctor{extractor: extractor, store: store}
}

// Run executes all health checks relevant to cfg and returns a report. It
// never returns an error itself: every failure becomes a StatusFail check
// instead, since a doctor run exists precisely to survive a broken
// environment.
func (d *Doctor) Run(ctx context.Context, cfg *cli.Config) *Report {
	report := &Report{}

	d.checkInputSelection(cfg, report)
	if cfg.Path != "" {
		d.checkSourceTree(cfg.Path, report)
		d.checkManifest(cfg.Path, report)
	}
	if cfg.Dir != "" {
		d.checkBatchDir(cfg.Dir, report)
	}
	if cfg.ModuleFile != "" {
		d.checkModuleFileDestination(cfg.ModuleFile, report)
	}
	if cfg.HasDatabase() {
		d.checkStore(ctx, report)
	} else {
		report.AddCheck(CheckResult{
			Category: "Report Store",
			Name:     "configured",
			Status:   StatusWarn,
			Message:  "no report store configured",
			FixHint:  "set database.url or database.host/name/user to persist runs",
		})
	}

	return report
}

func (d *Doctor) checkInputSelection(cfg *cli.Config, report *Report) {
	inputs := 0
	if cfg.Path != "" {
		inputs++
	}
	if cfg.Dir != "" {
		inputs++
	}
	if cfg.ModuleFile != "" && cfg.Path == "" && cfg.Dir == "" {
		inputs++
	}

	if inputs == 0 {
		report.AddCheck(CheckResult{
			Category: "Inputs",
			Name:     "selected",
			Status:   StatusFail,
			Message:  "no --path, --dir, or --module-file configured",
			FixHint:  "set exactly one input source",
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Inputs",
		Name:     "selected",
		Status:   StatusPass,
		Message:  "an input source is configured",
	})
}

func (d *Doctor) checkSourceTree(root string, report *Report) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		report.AddCheck(CheckResult{
			Category: "Source Tree",
			Name:     "exists",
			Status:   StatusFail,
			Message:  fmt.Sprintf("project path %s is not a directory", root),
			FixHint:  "point --path at a project root",
		})
		return
	}

	discovery, err := d.extractor.Discover(root)
	if err != nil || len(discovery.SourceFiles) == 0 {
		report.AddCheck(CheckResult{
			Category: "Source Tree",
			Name:     "sources",
			Status:   StatusFail,
			Message:  "no analyzable source files found",
			FixHint:  "check the configured source extension matches the project's language",
		})
		return
	}

	report.AddCheck(CheckResult{
		Category: "Source Tree",
		Name:     "sources",
		Status:   StatusPass,
		Message:  fmt.Sprintf("found %d source files", len(discovery.SourceFiles)),
	})
}

func (d *Doctor) checkManifest(root string, report *Report) {
	discovery, err := d.extractor.Discover(root)
	if err != nil || discovery.ManifestFile == "" {
		report.AddCheck(CheckResult{
			Category: "Manifest",
			Name:     "exists",
			Status:   StatusWarn,
			Message:  "no manifest file found; entry-point attribution will be empty",
			FixHint:  "add an AndroidManifest.xml-style manifest to the project root",
		})
		return
	}

	report.AddCheck(CheckResult{
		Category: "Manifest",
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("manifest found at %s", discovery.ManifestFile),
	})
}

func (d *Doctor) checkBatchDir(dir string, report *Report) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Batch Directory",
			Name:     "readable",
			Status:   StatusFail,
			Message:  fmt.Sprintf("cannot read batch directory %s", dir),
			Details:  err.Error(),
		})
		return
	}

	projects := 0
	for _, e := range entries {
		if e.IsDir() {
			projects++
		}
	}
	if projects == 0 {
		report.AddCheck(CheckResult{
			Category: "Batch Directory",
			Name:     "projects",
			Status:   StatusWarn,
			Message:  "batch directory has no project subdirectories",
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Batch Directory",
		Name:     "projects",
		Status:   StatusPass,
		Message:  fmt.Sprintf("found %d candidate project directories", projects),
	})
}

func (d *Doctor) checkModuleFileDestination(path string, report *Report) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		report.AddCheck(CheckResult{
			Category: "Module File",
			Name:     "destination",
			Status:   StatusFail,
			Message:  fmt.Sprintf("directory %s for module file does not exist", dir),
		})
		return
	}

	probe := filepath.Join(dir, ".patroid-doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		report.AddCheck(CheckResult{
			Category: "Module File",
			Name:     "writable",
			Status:   StatusFail,
			Message:  fmt.Sprintf("directory %s is not writable", dir),
			Details:  err.Error(),
		})
		return
	}
	_ = os.Remove(probe)

	report.AddCheck(CheckResult{
		Category: "Module File",
		Name:     "writable",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%s is writable", dir),
	})
}

func (d *Doctor) checkStore(ctx context.Context, report *Report) {
	if d.store == nil {
		report.AddCheck(CheckResult{
			Category: "Report Store",
			Name:     "reachable",
			Status:   StatusFail,
			Message:  "database configured but store failed to initialize",
		})
		return
	}

	if err := d.store.Ping(ctx); err != nil {
		report.AddCheck(CheckResult{
			Category: "Report Store",
			Name:     "reachable",
			Status:   StatusFail,
			Message:  "cannot reach report store",
			Details:  err.Error(),
			FixHint:  "check database.url/host/user/password and network reachability",
		})
		return
	}

	report.AddCheck(CheckResult{
		Category: "Report Store",
		Name:     "reachable",
		Status:   StatusPass,
		Message:  "report store connection healthy",
	})
}
