// Package guardian runs an ordered list of independent checks over the
// facts, the manifest and collaborator output. Every check runs; a failure
// never stops the ones after it.
package guardian

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"time"

	"aicheck/internal/backends"
	"aicheck/internal/config"
	"aicheck/internal/errors"
	"aicheck/internal/facts"
	"aicheck/internal/finding"
	"aicheck/internal/logging"
	"aicheck/internal/manifest"
	"aicheck/internal/syntax"
)

// Input is everything a check may read. Checks must not mutate it.
type Input struct {
	Root   string
	Config *config.Config

	// Files are all discovered source files; RouterFiles the subset matching
	// the router patterns. Both are sorted.
	Files       []string
	RouterFiles []string
	Sources     []*syntax.SourceFile
	Facts       facts.Set

	Manifest    *manifest.Manifest
	ManifestErr error
	Lock        *manifest.Lock
	LockErr     error

	// Collaborators; nil means not applicable for this project.
	Python backends.PythonManager
	Tests  backends.TestRunner
	VCS    backends.VCS
}

// Result is the outcome of one check.
type Result struct {
	Name     string            `json:"name" yaml:"name"`
	Passed   bool              `json:"passed" yaml:"passed"`
	Skipped  bool              `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Reason   string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Findings []finding.Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Check is one independent rule.
type Check interface {
	Name() string
	Run(ctx context.Context, in *Input) Result
}

// Engine runs checks in order and collects their results.
type Engine struct {
	checks []Check
	logger *slog.Logger
}

// NewEngine creates an engine over checks.
func NewEngine(logger *slog.Logger, checks ...Check) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{checks: checks, logger: logger}
}

// Checks returns the check names in run order.
func (e *Engine) Checks() []string {
	out := make([]string, len(e.checks))
	for i, c := range e.checks {
		out[i] = c.Name()
	}
	return out
}

// Run executes every check. It stops early only when ctx is done, returning
// the results gathered so far together with the context error.
func (e *Engine) Run(ctx context.Context, in *Input) ([]Result, error) {
	results := make([]Result, 0, len(e.checks))
	for _, c := range e.checks {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		res := c.Run(ctx, in)
		res.Name = c.Name()
		for i := range res.Findings {
			res.Findings[i].Check = res.Name
		}
		if hasErrors(res.Findings) {
			res.Passed = false
		}

		e.logger.Debug("Check completed",
			"check", res.Name,
			"passed", res.Passed,
			"skipped", res.Skipped,
			"findings", len(res.Findings),
			"duration", time.Since(start).String(),
		)
		results = append(results, res)
	}
	return results, nil
}

func hasErrors(fs []finding.Finding) bool {
	for _, f := range fs {
		if f.IsError() {
			return true
		}
	}
	return false
}

func pass(findings ...finding.Finding) Result {
	return Result{Passed: true, Findings: findings}
}

func skip(reason string) Result {
	return Result{Passed: true, Skipped: true, Reason: reason}
}

func fail(findings ...finding.Finding) Result {
	return Result{Passed: false, Findings: findings}
}

// collaboratorFinding reports an external tool problem distinctly from a
// source mismatch.
// missingTool reports a collaborator whose tool is not on PATH, before any
// command is attempted.
func missingTool(b backends.Backend) (finding.Finding, bool) {
	if b.IsAvailable() {
		return finding.Finding{}, false
	}
	id := string(b.ID())
	return collaboratorFinding(id, backends.Unavailable(id, exec.ErrNotFound)), true
}

func collaboratorFinding(subject string, err error) finding.Finding {
	f := finding.Errorf(finding.CategoryCollaborator, subject, "%v", err)
	var ae *errors.AuditError
	if stderrors.As(err, &ae) {
		f.Message = ae.Message
		f.Hint = ae.Hint()
	}
	return f
}
