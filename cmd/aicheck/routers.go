package main

import (
	"os"

	"github.com/spf13/cobra"

	"aicheck/internal/audit"
	"aicheck/internal/guardian"
)

var routersCmd = &cobra.Command{
	Use:   "routers",
	Short: "Find routers that are declared but never mounted",
	Long: `Find routers that are declared but never mounted.

Every assignment of an APIRouter() call in a router file is a declaration.
A router is mounted when the application entry point (main.py, app.py, ...
or the first file constructing FastAPI()) passes it to include_router.

Examples:
  aicheck routers
  aicheck routers --root services/api
  aicheck routers --follow-nested --format json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runAudit(cmd, audit.Options{Suite: guardian.SuiteRouters}))
	},
}

func init() {
	rootCmd.AddCommand(routersCmd)
}
