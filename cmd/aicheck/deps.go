package main

import (
	"os"

	"github.com/spf13/cobra"

	"aicheck/internal/audit"
	"aicheck/internal/guardian"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Dependency guardian and deployment readiness checks",
}

var depsGuardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Check the manifest against the lock file and the code's imports",
	Long: `Check the manifest against the lock file and the code's imports.

Runs, in order and without stopping at the first failure:
  - lock-sync: poetry check agrees the lock matches pyproject.toml
  - import-availability: every absolute import is stdlib, first-party,
    declared or installed
  - dev-separation: development dependencies are not imported outside tests
  - version-pinning: critical packages use exact versions (warning only)

When every check passes, the exact production versions are written to
.aicheck/deployment-manifest.json.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runAudit(cmd, audit.Options{Suite: guardian.SuiteGuard, WriteArtifact: true}))
	},
}

var depsReadyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Check that the project is ready to deploy",
	Long: `Check that the project is ready to deploy.

Verifies the lock file is committed, every import is available, the test
suite passes (poetry run pytest -q, or npm test for Node.js projects) and
development dependencies stay out of production code.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runAudit(cmd, audit.Options{Suite: guardian.SuiteReady}))
	},
}

func init() {
	depsCmd.AddCommand(depsGuardCmd)
	depsCmd.AddCommand(depsReadyCmd)
	rootCmd.AddCommand(depsCmd)
}
