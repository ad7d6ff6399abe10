package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/driver"
	"github.com/dmrimawi/patroid/extract/lexical"
	"github.com/dmrimawi/patroid/report"
	"github.com/dmrimawi/patroid/store"
)

var (
	analyzePath       string
	analyzeDir        string
	analyzeModuleFile string
	analyzeDebugMode  bool
	analyzeExtension  string
	analyzeFormat     string
	analyzeStoreDSN   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract relations and detect design patterns in a project",
	Long: `Analyze a single project, a directory of sibling projects, or a
previously serialized module file, reporting which Gang of Four design
patterns the extracted relation graph exhibits.

Exactly one of --path, --dir, or --module-file-only-mode (--module-file
with neither --path nor --dir) selects the input source.`,
	Example: `  patroid analyze --path ./sample-project
  patroid analyze --path ./sample-project --module-file ./out/sample.xml
  patroid analyze --dir ./sample-projects
  patroid analyze --module-file ./out/sample.xml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveString(analyzePath, cfg.Path)
		dir := resolveString(analyzeDir, cfg.Dir)
		moduleFile := resolveString(analyzeModuleFile, cfg.ModuleFile)
		if path != "" && moduleFile == "" {
			moduleFile = "output_module.xml"
		}
		debugMode := resolveBool(analyzeDebugMode, cfg.DebugMode)
		ext := resolveString(analyzeExtension, cfg.Analyze.SourceExtension, ".java")

		if path != "" && dir != "" {
			return apperr.New(apperr.InputMissing, "--path and --dir are mutually exclusive")
		}

		extractor := lexical.New(ext)
		if debugMode {
			extractor.Debug = os.Stderr
		}
		d := driver.New(extractor)
		if cfg.Analyze.Workers > 0 {
			d.Workers = cfg.Analyze.Workers
		}

		ctx := context.Background()

		var s *store.Postgres
		dsn := resolveString(analyzeStoreDSN, cfg.Database.URL)
		if dsn == "" && cfg.HasDatabase() {
			var err error
			dsn, err = cfg.DSN()
			if err != nil {
				return apperr.Wrap(apperr.InternalError, "resolving report store DSN", err)
			}
		}
		if dsn != "" {
			opened, err := store.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer opened.Close()
			if err := opened.ApplyDDL(ctx); err != nil {
				return err
			}
			s = opened
		}

		if dir != "" {
			results, err := d.AnalyzeBatch(ctx, dir)
			if err != nil {
				return err
			}
			return printBatchResults(cmd, results, s, ctx)
		}

		r, err := d.AnalyzeProject(ctx, path, moduleFile)
		if err != nil {
			return err
		}

		if s != nil {
			if err := s.SaveReport(ctx, r, time.Now(), time.Now()); err != nil {
				return err
			}
		}

		return printReport(cmd, r, resolveString(analyzeFormat, "table"))
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzePath, "path", "", "project root to analyze")
	f.StringVar(&analyzeDir, "dir", "", "directory of sibling project roots to analyze in batch")
	f.StringVar(&analyzeModuleFile, "module-file", "", "module file to read (when --path/--dir absent) or write (with --path; default output_module.xml)")
	f.BoolVar(&analyzeDebugMode, "debug-mode", false, "log each extraction stage to stderr")
	f.StringVar(&analyzeExtension, "ext", "", "source file extension to scan (default .java)")
	f.StringVar(&analyzeFormat, "format", "", "output format: table or json (default table)")
	f.StringVar(&analyzeStoreDSN, "store-dsn", "", "report store DSN to persist this run")
}

func printReport(cmd *cobra.Command, r *report.Report, format string) error {
	out := cmd.OutOrStdout()

	if format == "json" {
		return writeJSONReport(out, r)
	}

	var names []string
	for name := range r.Occurrences {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Pattern", "Occurrences"})
	total := 0
	for _, name := range names {
		count := len(r.Occurrences[name])
		if count == 0 {
			continue
		}
		total += count
		table.Append([]string{name, fmt.Sprintf("%d", count)})
	}
	table.Render()

	fmt.Fprintf(out, "\nrun %s: %d occurrences across %d project(s)\n", r.RunID, total, 1)
	return nil
}

func printBatchResults(cmd *cobra.Command, results []driver.BatchResult, s *store.Postgres, ctx context.Context) error {
	out := cmd.OutOrStdout()

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Project", "Status", "Occurrences"})
	for _, res := range results {
		if res.Err != nil {
			table.Append([]string{res.Project, "failed: " + res.Err.Error(), "-"})
			continue
		}
		total := 0
		for _, occs := range res.Report.Occurrences {
			total += len(occs)
		}
		table.Append([]string{res.Project, "ok", fmt.Sprintf("%d", total)})

		if s != nil {
			if err := s.SaveReport(ctx, res.Report, time.Now(), time.Now()); err != nil {
				return err
			}
		}
	}
	table.Render()
	return nil
}

func writeJSONReport(out io.Writer, r *report.Report) error {
	type occurrenceJSON struct {
		Pattern   string         `json:"pattern"`
		Witnesses map[string]any `json:"witnesses"`
	}
	type reportJSON struct {
		RunID       uuid.UUID                   `json:"run_id"`
		Project     string                      `json:"project"`
		Occurrences map[string][]occurrenceJSON `json:"occurrences"`
	}

	payload := reportJSON{RunID: r.RunID, Project: r.Project, Occurrences: make(map[string][]occurrenceJSON)}
	for name, occs := range r.Occurrences {
		for _, occ := range occs {
			payload.Occurrences[name] = append(payload.Occurrences[name], occurrenceJSON{
				Pattern:   occ.Pattern,
				Witnesses: occ.Witnesses,
			})
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
