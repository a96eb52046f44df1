package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aicheck/internal/audit"
	"aicheck/internal/backends"
	"aicheck/internal/config"
	"aicheck/internal/errors"
	"aicheck/internal/logging"
	"aicheck/internal/report"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	root   string
	cfg    *config.Config
	format report.Format
	logger *slog.Logger
}

// getRepoRoot resolves --root to an absolute directory.
func getRepoRoot() (string, error) {
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", root)
	}
	return root, nil
}

// loadSettings reads the project config and applies flags that were set
// explicitly on the command line.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	root, err := getRepoRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewAuditError(errors.ConfigInvalid, err.Error(), err, errors.GetSuggestedFixes(errors.ConfigInvalid))
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return nil, err
	}
	return &settings{
		root:   root,
		cfg:    cfg,
		format: format,
		logger: newLogger(cmd, cfg),
	}, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Report.Format = formatFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
	if noColorFlag {
		cfg.Report.Color = "never"
	}
	if followNestedFlag {
		cfg.Routers.FollowNested = true
	}
}

// newLogger builds the stderr logger. -v/-q win over the configured level.
// Every line carries the run id.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := logging.LevelFromString(cfg.Logging.Level)
	if verboseFlag > 0 || quietFlag {
		level = logging.LevelFromVerbosity(verboseFlag, quietFlag)
	}
	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  level,
		Output: cmd.ErrOrStderr(),
	})
	return logger.With("run", uuid.NewString(), "command", cmd.CommandPath())
}

// newContext applies --timeout.
func newContext() (context.Context, context.CancelFunc) {
	if timeoutFlag > 0 {
		return context.WithTimeout(context.Background(), timeoutFlag)
	}
	return context.WithCancel(context.Background())
}

// runAudit executes one pass, renders the report to stdout and returns the
// process exit code.
func runAudit(cmd *cobra.Command, opts audit.Options) int {
	s, err := loadSettings(cmd)
	if err != nil {
		printError(cmd, err)
		return exitError
	}

	ctx, cancel := newContext()
	defer cancel()

	s.logger.Debug("Starting audit", "root", s.root, "suite", string(opts.Suite), "workers", s.cfg.Workers)
	auditor := audit.NewAuditor(s.root, s.cfg, backends.NewExecRunner(s.logger), s.logger)
	out, err := auditor.Run(ctx, opts)
	if err != nil {
		s.logger.Error("Audit failed", "error", err.Error())
		printError(cmd, err)
		return exitError
	}

	if err := report.Render(cmd.OutOrStdout(), out.Report, s.format, report.Options{Color: s.cfg.Report.Color}); err != nil {
		printError(cmd, err)
		return exitError
	}
	if out.Report.ExitCode() != 0 {
		return exitFindings
	}
	return exitOK
}

func printError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n", err)
	var ae *errors.AuditError
	if stderrors.As(err, &ae) {
		if hint := ae.Hint(); hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", hint)
		}
	}
}
