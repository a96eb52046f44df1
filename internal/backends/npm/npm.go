// Package npm runs the test suite of Node.js projects.
package npm

import (
	"context"

	"aicheck/internal/backends"
)

// LockFiles are the lock files npm and yarn projects commit.
var LockFiles = []string{"package-lock.json", "yarn.lock"}

// Runner implements backends.TestRunner with `npm test`.
type Runner struct {
	root   string
	runner backends.Runner
}

// New creates an npm test runner rooted at the project directory.
func New(root string, runner backends.Runner) *Runner {
	return &Runner{root: root, runner: runner}
}

// ID returns the backend identifier
func (n *Runner) ID() backends.BackendID {
	return backends.BackendNPM
}

// IsAvailable reports whether npm is on PATH
func (n *Runner) IsAvailable() bool {
	_, err := n.runner.LookPath("npm")
	return err == nil
}

// RunTests runs `npm test`.
func (n *Runner) RunTests(ctx context.Context) (backends.TestResult, error) {
	out, err := n.runner.Run(ctx, n.root, "npm", "test")
	if err != nil {
		return backends.TestResult{}, err
	}
	lines := backends.Lines(out.Stdout)
	summary := ""
	if len(lines) > 0 {
		summary = lines[len(lines)-1]
	}
	return backends.TestResult{
		Passed:  out.ExitCode == 0,
		Command: "npm test",
		Summary: summary,
	}, nil
}
