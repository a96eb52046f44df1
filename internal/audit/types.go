// Package audit runs one audit pass over a project: it locates and parses
// the sources, extracts facts, runs the checks of a suite and, after a clean
// run, writes the deployment manifest.
package audit

import (
	"time"

	"aicheck/internal/guardian"
	"aicheck/internal/report"
)

// Options configures one pass.
type Options struct {
	Suite guardian.Suite
	// RunTests adds the test-suite check to guardian.SuiteFull.
	RunTests bool
	// WriteArtifact writes the deployment manifest when every check passes.
	WriteArtifact bool
	// Now stamps the artifact; nil means time.Now.
	Now func() time.Time
}

// Outcome is what a pass produced.
type Outcome struct {
	Report *report.Report
	// Artifact is set only when one was written.
	Artifact *report.Artifact
	// Files and RouterFiles are the discovered sources, repo-relative.
	Files       []string
	RouterFiles []string
}
