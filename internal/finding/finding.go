// Package finding defines the result vocabulary shared by the reconciler,
// the guardian checks and the reporters.
package finding

import (
	"fmt"
	"sort"
)

// Severity of a finding. Only errors affect the exit status.
type Severity string

const (
	// SeverityError marks a problem that fails the audit
	SeverityError Severity = "error"
	// SeverityWarning marks a recommended fix that does not fail the audit
	SeverityWarning Severity = "warning"
)

// Category separates source problems from environment problems.
type Category string

const (
	// CategoryParse is a file that could not be parsed
	CategoryParse Category = "parse"
	// CategoryResolution is a missing entry point
	CategoryResolution Category = "resolution"
	// CategoryReconciliation is a mismatch between fact sets
	CategoryReconciliation Category = "reconciliation"
	// CategoryCollaborator is a missing or failing external tool
	CategoryCollaborator Category = "collaborator"
)

// Evidence points at a source location, a name, or both.
type Evidence struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// String renders evidence as path:line:col, path:line when the column is
// unknown, falling back to the name.
func (e Evidence) String() string {
	switch {
	case e.Path != "" && e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d", e.Path, e.Line)
	case e.Path != "":
		return e.Path
	default:
		return e.Name
	}
}

// Finding is one reportable problem.
type Finding struct {
	Check    string     `json:"check" yaml:"check"`
	Severity Severity   `json:"severity" yaml:"severity"`
	Category Category   `json:"category" yaml:"category"`
	Subject  string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	Message  string     `json:"message" yaml:"message"`
	Evidence []Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Hint     string     `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// IsError reports whether f fails the audit.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// Errorf builds an error finding.
func Errorf(cat Category, subject, format string, args ...any) Finding {
	return Finding{
		Severity: SeverityError,
		Category: cat,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning finding.
func Warnf(cat Category, subject, format string, args ...any) Finding {
	return Finding{
		Severity: SeverityWarning,
		Category: cat,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

// SortEvidence orders evidence by path, line, column, then name.
func SortEvidence(ev []Evidence) {
	sort.SliceStable(ev, func(i, j int) bool {
		a, b := ev[i], ev[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Name < b.Name
	})
}

// Partition splits findings into errors and warnings, preserving order.
func Partition(findings []Finding) (errs, warns []Finding) {
	for _, f := range findings {
		if f.IsError() {
			errs = append(errs, f)
		} else {
			warns = append(warns, f)
		}
	}
	return errs, warns
}
