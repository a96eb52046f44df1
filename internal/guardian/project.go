package guardian

import (
	"context"
	stderrors "errors"
	"fmt"

	"aicheck/internal/backends/npm"
	"aicheck/internal/finding"
	"aicheck/internal/paths"
	"aicheck/internal/syntax"
)

// LockCommitted checks that the project's lock file exists and has no
// uncommitted changes.
type LockCommitted struct{}

// Name implements Check
func (LockCommitted) Name() string { return "lock-committed" }

// Run implements Check
func (LockCommitted) Run(ctx context.Context, in *Input) Result {
	deps := in.Config.Dependencies
	var locks []string

	switch {
	case paths.Exists(paths.JoinRepoPath(in.Root, deps.Manifest)):
		if !paths.Exists(paths.JoinRepoPath(in.Root, deps.LockFile)) {
			f := finding.Errorf(finding.CategoryReconciliation, deps.LockFile, "no %s file found", deps.LockFile)
			f.Hint = "run 'poetry lock' and commit the result"
			return fail(f)
		}
		locks = []string{deps.LockFile}
	case paths.Exists(paths.JoinRepoPath(in.Root, "package.json")):
		for _, lf := range npm.LockFiles {
			if paths.Exists(paths.JoinRepoPath(in.Root, lf)) {
				locks = append(locks, lf)
			}
		}
		if len(locks) == 0 {
			return skip("no Node.js lock file found")
		}
	default:
		return skip("no manifest found")
	}

	if in.VCS == nil {
		return skip("version control not available")
	}
	if f, missing := missingTool(in.VCS); missing {
		return fail(f)
	}
	dirty, err := in.VCS.Uncommitted(ctx, locks...)
	if err != nil {
		return fail(collaboratorFinding(string(in.VCS.ID()), err))
	}

	var findings []finding.Finding
	for _, p := range dirty {
		f := finding.Errorf(finding.CategoryReconciliation, p, "%s has uncommitted changes", p)
		f.Evidence = []finding.Evidence{{Path: p}}
		f.Hint = fmt.Sprintf("git add %s && git commit", p)
		findings = append(findings, f)
	}
	if len(findings) > 0 {
		return fail(findings...)
	}
	return pass()
}

// Tests runs the project's test suite through its collaborator.
type Tests struct{}

// Name implements Check
func (Tests) Name() string { return "tests" }

// Run implements Check
func (Tests) Run(ctx context.Context, in *Input) Result {
	if in.Tests == nil {
		return skip("no test runner for this project")
	}
	if f, missing := missingTool(in.Tests); missing {
		return fail(f)
	}
	res, err := in.Tests.RunTests(ctx)
	if err != nil {
		return fail(collaboratorFinding(string(in.Tests.ID()), err))
	}
	if !res.Passed {
		f := finding.Errorf(finding.CategoryReconciliation, "", "test suite failed")
		if res.Summary != "" {
			f.Evidence = []finding.Evidence{{Name: res.Summary}}
		}
		f.Hint = "run '" + res.Command + "' locally"
		return fail(f)
	}
	r := pass()
	r.Reason = res.Summary
	return r
}

// ParseHealth surfaces files that could not be parsed. They are warnings:
// a broken file loses its facts but does not fail the audit.
type ParseHealth struct{}

// Name implements Check
func (ParseHealth) Name() string { return "parse" }

// Run implements Check
func (ParseHealth) Run(ctx context.Context, in *Input) Result {
	var findings []finding.Finding
	for _, sf := range in.Sources {
		if sf.Err == nil {
			continue
		}
		f := finding.Warnf(finding.CategoryParse, sf.Path, "could not parse %s: %v", sf.Path, sf.Err)
		ev := finding.Evidence{Path: sf.Path}
		var pe *syntax.ParseError
		if stderrors.As(sf.Err, &pe) {
			f.Message = fmt.Sprintf("could not parse %s: %s", sf.Path, pe.Message)
			ev.Line, ev.Column = pe.Line, pe.Column
		}
		f.Evidence = []finding.Evidence{ev}
		findings = append(findings, f)
	}
	return pass(findings...)
}
