package main

import (
	"github.com/spf13/cobra"

	"github.com/dmrimawi/patroid/driver"
	"github.com/dmrimawi/patroid/extract/lexical"
	"github.com/dmrimawi/patroid/internal/lspserver"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run a Language Server Protocol server over stdio",
	Long: `Run a language server that re-analyzes a project on open and save and
republishes the GoF patterns touching the saved file's class as
informational diagnostics, for editors that speak LSP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ext := resolveString(cfg.Analyze.SourceExtension, ".java")
		d := driver.New(lexical.New(ext))
		if cfg.Analyze.Workers > 0 {
			d.Workers = cfg.Analyze.Workers
		}

		srv := lspserver.NewServer(nil, d)
		return srv.RunStdio()
	},
}
