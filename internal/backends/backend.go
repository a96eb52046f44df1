// Package backends wraps the external tools an audit consults: the package
// manager, the test runner and version control. The audit core never shells
// out directly; it talks to the interfaces declared here.
package backends

import (
	"context"
)

// BackendID uniquely identifies a collaborator
type BackendID string

const (
	// BackendPoetry represents the Poetry package manager
	BackendPoetry BackendID = "poetry"
	// BackendNPM represents npm, used for Node.js test runs
	BackendNPM BackendID = "npm"
	// BackendGit represents the Git backend
	BackendGit BackendID = "git"
)

// Backend is the base interface that all collaborators implement
type Backend interface {
	// ID returns the unique identifier for this backend
	ID() BackendID

	// IsAvailable reports whether the tool is installed
	IsAvailable() bool
}

// LockStatus is the verdict of a lock consistency check.
type LockStatus struct {
	InSync bool
	Detail string
}

// TestResult is the outcome of a test-suite run.
type TestResult struct {
	Passed  bool
	Command string
	Summary string
}

// TestRunner runs the project's test suite
type TestRunner interface {
	Backend

	// RunTests runs the suite and reports whether it passed. A failing suite
	// is not an error; only an unusable tool is.
	RunTests(ctx context.Context) (TestResult, error)
}

// PythonManager is a Python package manager
type PythonManager interface {
	TestRunner

	// CheckLock reports whether the lock file matches the manifest
	CheckLock(ctx context.Context) (LockStatus, error)

	// InstalledPackages lists installed distribution names
	InstalledPackages(ctx context.Context) ([]string, error)

	// ExportRequirements maps exported package names to exact versions
	ExportRequirements(ctx context.Context) (map[string]string, error)
}

// VCS reports working-tree state
type VCS interface {
	Backend

	// Uncommitted returns which of the given repo-relative paths have
	// uncommitted changes, including untracked files
	Uncommitted(ctx context.Context, paths ...string) ([]string, error)
}
