package main

import (
	"os"

	"github.com/spf13/cobra"

	"aicheck/internal/audit"
	"aicheck/internal/guardian"
)

var (
	auditRunTests bool
	auditArtifact bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run every check in one report",
	Long: `Run every check in one report.

Checks: parse, router-mounting, lock-sync, lock-committed, lock-coverage,
import-availability, dev-separation and version-pinning. The project's test
suite runs only with --run-tests.

Exit status is 0 when every check passes, 1 when any check reports an error
and 2 when the audit could not complete.

Examples:
  aicheck audit
  aicheck audit --run-tests --timeout 5m
  aicheck audit --format yaml -q`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runAudit(cmd, audit.Options{
			Suite:         guardian.SuiteFull,
			RunTests:      auditRunTests,
			WriteArtifact: auditArtifact,
		}))
	},
}

func init() {
	auditCmd.Flags().BoolVar(&auditRunTests, "run-tests", false, "Also run the project's test suite")
	auditCmd.Flags().BoolVar(&auditArtifact, "artifact", false, "Write the deployment manifest when every check passes")
	rootCmd.AddCommand(auditCmd)
}
