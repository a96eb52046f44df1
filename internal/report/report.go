// Package report renders an audit's check results for people and machines,
// and writes the deployment manifest artifact.
package report

import (
	"fmt"
	"io"
	"strings"

	"aicheck/internal/finding"
	"aicheck/internal/guardian"
)

// Format selects a renderer.
type Format string

const (
	// FormatText is the human-readable report
	FormatText Format = "text"
	// FormatJSON is the machine-readable report
	FormatJSON Format = "json"
	// FormatYAML is the machine-readable report as YAML
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
	}
}

// Report is one audit pass, assembled once and rendered once.
type Report struct {
	Suite    string            `json:"suite" yaml:"suite"`
	Passed   bool              `json:"passed" yaml:"passed"`
	Errors   int               `json:"errors" yaml:"errors"`
	Warnings int               `json:"warnings" yaml:"warnings"`
	Checks   []guardian.Result `json:"checks" yaml:"checks"`

	// Artifact is the repo-relative path of the deployment manifest, when
	// one was written.
	Artifact string `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}

// New builds a report from check results in run order.
func New(suite string, results []guardian.Result) *Report {
	r := &Report{Suite: suite, Passed: true, Checks: results}
	if r.Checks == nil {
		r.Checks = []guardian.Result{}
	}
	for _, res := range results {
		if !res.Passed {
			r.Passed = false
		}
		errs, warns := finding.Partition(res.Findings)
		r.Errors += len(errs)
		r.Warnings += len(warns)
	}
	return r
}

// Findings returns every error, then every warning, each group in check
// order.
func (r *Report) Findings() (errs, warns []finding.Finding) {
	for _, res := range r.Checks {
		e, w := finding.Partition(res.Findings)
		errs = append(errs, e...)
		warns = append(warns, w...)
	}
	return errs, warns
}

// CheckFlags maps each check name to its pass flag.
func (r *Report) CheckFlags() map[string]bool {
	out := make(map[string]bool, len(r.Checks))
	for _, res := range r.Checks {
		out[res.Name] = res.Passed
	}
	return out
}

// ExitCode is 0 when every check passed and 1 otherwise. Warnings never
// change it.
func (r *Report) ExitCode() int {
	if r.Passed {
		return 0
	}
	return 1
}

// Options tunes rendering.
type Options struct {
	// Color is auto, always or never. Only the text format uses it.
	Color string
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *Report, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		data, err := encodeJSON(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatYAML:
		return encodeYAML(w, r)
	case FormatText, "":
		return newTextRenderer(opts).render(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
