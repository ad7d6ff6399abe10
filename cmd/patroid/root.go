// Package main provides the patroid CLI: a GoF design-pattern recognizer
// that extracts a class-relation graph from a source tree, derives its
// structural sub-patterns, and detects which of the Gang of Four patterns
// the design exhibits.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmrimawi/patroid/internal/cli"
	"github.com/dmrimawi/patroid/internal/update"
)

var (
	cfg        *cli.Config
	configPath string

	cfgFile       string
	verbose       int
	quiet         bool
	noUpdateCheck bool

	updateResult chan *update.Info
)

var rootCmd = &cobra.Command{
	Use:   "patroid",
	Short: "Recognize Gang of Four design patterns in object-oriented source trees",
	Long: `patroid - design-pattern recognizer

patroid extracts a typed relation graph (inheritance, association,
aggregation, dependency) from a project's source files and manifest,
derives the sub-pattern building blocks from that graph, and reports
which Gang of Four structural and behavioral patterns the design exhibits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" || cmd.Name() == "license" {
			return nil
		}

		if !noUpdateCheck && !isCI() {
			updateResult = make(chan *update.Info, 1)
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				info, _ := update.CheckWithCache(ctx)
				updateResult <- info
			}()
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

const (
	groupCore    = "core"
	groupServer  = "server"
	groupUtility = "utility"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover patroid.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noUpdateCheck, "no-update-check", false, "disable update check")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core:"},
		&cobra.Group{ID: groupServer, Title: "Server:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	analyzeCmd.GroupID = groupCore
	doctorCmd.GroupID = groupCore
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(doctorCmd)

	serveCmd.GroupID = groupServer
	lspCmd.GroupID = groupServer
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lspCmd)

	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	licenseCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(licenseCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided
// values, implementing flag > config > default precedence.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveBool returns true if any of the provided values is true.
func resolveBool(values ...bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}

func isCI() bool {
	return os.Getenv("CI") != ""
}

// ShowUpdateNoticeIfAvailable prints a pending update notice, if one was
// found in the background check started by PersistentPreRunE. Called from
// main after command execution, since PersistentPostRun doesn't run when a
// command returns an error.
func ShowUpdateNoticeIfAvailable() {
	if updateResult == nil {
		return
	}

	select {
	case info := <-updateResult:
		if info != nil && info.UpdateAvailable {
			showUpdateNotice(info)
		}
	case <-time.After(1 * time.Second):
	}
}

func showUpdateNotice(info *update.Info) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "* A new version of patroid is available: v%s (current: %s)\n",
		info.LatestVersion, info.CurrentVersion)
	fmt.Fprintln(os.Stderr, "  go install github.com/dmrimawi/patroid/cmd/patroid@latest")
}
