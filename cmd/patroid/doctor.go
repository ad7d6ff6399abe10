package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/extract/lexical"
	"github.com/dmrimawi/patroid/internal/doctor"
	"github.com/dmrimawi/patroid/store"
)

var (
	doctorStoreDSN string
	doctorVerbose  bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the configured inputs and report store",
	Example: `  patroid doctor
  patroid doctor --store-dsn postgres://localhost/patroid --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verboseFlag := resolveBool(doctorVerbose, cfg.Doctor.Verbose)
		dsn := resolveString(doctorStoreDSN, cfg.Database.URL)

		ctx := context.Background()

		var pinger doctor.StorePinger
		if dsn != "" || cfg.HasDatabase() {
			if dsn == "" {
				var err error
				dsn, err = cfg.DSN()
				if err != nil {
					return apperr.Wrap(apperr.InternalError, "resolving report store DSN", err)
				}
			}
			s, err := store.Open(ctx, dsn)
			if err == nil {
				defer s.Close()
				pinger = s
			}
		}

		ext := resolveString(cfg.Analyze.SourceExtension, ".java")
		d := doctor.New(lexical.New(ext), pinger)

		if !quiet {
			fmt.Println("patroid doctor - Health Check")
		}

		report := d.Run(ctx, cfg)
		report.Print(os.Stdout, verboseFlag)

		if report.HasErrors() {
			return apperr.New(apperr.InternalError, "health checks failed")
		}
		return nil
	},
}

func init() {
	f := doctorCmd.Flags()
	f.StringVar(&doctorStoreDSN, "store-dsn", "", "report store DSN to health-check")
	f.BoolVar(&doctorVerbose, "verbose", false, "show detailed output")
}
