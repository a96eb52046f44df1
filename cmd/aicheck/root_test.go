package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"aicheck/internal/audit"
	"aicheck/internal/config"
	"aicheck/internal/guardian"
	"aicheck/internal/testutil"
)

func TestApplyFlags(t *testing.T) {
	t.Cleanup(func() {
		formatFlag, workersFlag, noColorFlag, followNestedFlag = "", 0, false, false
	})

	if err := auditCmd.ParseFlags([]string{"--format", "yaml", "--workers", "3", "--no-color", "--follow-nested"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg := config.DefaultConfig()
	applyFlags(auditCmd, cfg)

	if cfg.Report.Format != "yaml" || cfg.Workers != 3 || cfg.Report.Color != "never" || !cfg.Routers.FollowNested {
		t.Errorf("config after flags = %+v", cfg)
	}
}

func TestApplyFlagsKeepsConfigWhenUnset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Report.Format = "json"
	cfg.Workers = 4
	applyFlags(&cobra.Command{Use: "bare"}, cfg)
	if cfg.Report.Format != "json" || cfg.Workers != 4 {
		t.Errorf("unset flags overrode config: %+v", cfg)
	}
}

func TestGetRepoRoot(t *testing.T) {
	orig := rootFlag
	t.Cleanup(func() { rootFlag = orig })

	dir := t.TempDir()
	rootFlag = dir
	got, err := getRepoRoot()
	if err != nil || got != dir {
		t.Errorf("getRepoRoot() = %q, %v", got, err)
	}

	rootFlag = filepath.Join(dir, "missing")
	if _, err := getRepoRoot(); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestRunAuditInvalidConfig(t *testing.T) {
	orig := rootFlag
	t.Cleanup(func() { rootFlag = orig })
	rootFlag = testutil.NewProject(t, map[string]string{
		".aicheck/config.json": `{"version": 99}`,
	})

	cmd := &cobra.Command{Use: "routers"}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if got := runAudit(cmd, audit.Options{Suite: guardian.SuiteRouters}); got != exitError {
		t.Fatalf("exit code = %d, want %d", got, exitError)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("no report expected, got %q", stdout.String())
	}
}

func TestRunAuditMissingRoot(t *testing.T) {
	orig := rootFlag
	t.Cleanup(func() { rootFlag = orig })
	rootFlag = filepath.Join(t.TempDir(), "absent")

	cmd := &cobra.Command{Use: "routers"}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	if got := runAudit(cmd, audit.Options{Suite: guardian.SuiteRouters}); got != exitError {
		t.Errorf("exit code = %d, want %d", got, exitError)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "aicheck ") {
		t.Errorf("version output = %q", out.String())
	}
}
