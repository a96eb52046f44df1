package main

import (
	"time"

	"github.com/spf13/cobra"

	"aicheck/internal/version"
)

// Process exit codes. Findings exit with exitFindings; anything that
// prevented a report exits with exitError.
const (
	exitOK       = 0
	exitFindings = 1
	exitError    = 2
)

var (
	rootFlag         string
	formatFlag       string
	workersFlag      int
	noColorFlag      bool
	verboseFlag      int
	quietFlag        bool
	timeoutFlag      time.Duration
	followNestedFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "aicheck",
	Short: "aicheck - static wiring and dependency audits for Python services",
	Long: `aicheck inspects a Python project without running it and reports
routers that are declared but never mounted, imports that no dependency
provides, development dependencies leaking into production code, and lock
files that drifted from the manifest.

Configuration is read from .aicheck/config.{json,yaml,toml} and AICHECK_*
environment variables; flags override both.`,
	Version:      version.Info(),
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate("aicheck version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlag, "root", ".", "Project root to audit")
	flags.StringVar(&formatFlag, "format", "", "Report format: text, json or yaml (default from config, text)")
	flags.IntVar(&workersFlag, "workers", 0, "Parallel parse workers (0 = number of CPUs)")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	flags.CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all logs")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "Abort the audit after this long (e.g. 2m); 0 disables")
	flags.BoolVar(&followNestedFlag, "follow-nested", false, "Count routers mounted on routers that are themselves mounted")
}
