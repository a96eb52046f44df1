package reconcile

import (
	"sort"
	"strings"

	"aicheck/internal/facts"
	"aicheck/internal/finding"
	"aicheck/internal/manifest"
)

// Availability is everything an import may resolve to.
type Availability struct {
	// Stdlib holds raw module names.
	Stdlib map[string]bool
	// Local holds first-party top-level modules.
	Local map[string]bool
	// Declared and Installed hold normalized distribution names.
	Declared  map[string]bool
	Installed map[string]bool
}

// Satisfied reports whether a top-level module is available. A declared or
// installed name satisfies the import when it equals the normalized module
// name or is a strict prefix of it.
func (a Availability) Satisfied(module string) bool {
	if a.Stdlib[module] || a.Local[module] {
		return true
	}
	n := manifest.NormalizeName(module)
	return prefixMatch(n, a.Declared) || prefixMatch(n, a.Installed)
}

func prefixMatch(name string, set map[string]bool) bool {
	if set[name] {
		return true
	}
	for dep := range set {
		if dep != "" && strings.HasPrefix(name, dep) {
			return true
		}
	}
	return false
}

// MissingDependencies reports one error per unavailable top-level module,
// with one evidence entry per referencing file.
func MissingDependencies(imports []facts.ImportFact, avail Availability) []finding.Finding {
	byModule := make(map[string][]facts.ImportFact)
	for _, imp := range imports {
		if avail.Satisfied(imp.Module) {
			continue
		}
		byModule[imp.Module] = append(byModule[imp.Module], imp)
	}

	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	out := make([]finding.Finding, 0, len(modules))
	for _, m := range modules {
		f := finding.Errorf(finding.CategoryReconciliation, m,
			"%s is imported but not declared as a dependency", m)
		seen := make(map[string]bool)
		for _, imp := range byModule[m] {
			if seen[imp.File] {
				continue
			}
			seen[imp.File] = true
			f.Evidence = append(f.Evidence, finding.Evidence{
				Name:   imp.Full,
				Path:   imp.File,
				Line:   imp.Span.Line,
				Column: imp.Span.Column,
			})
		}
		finding.SortEvidence(f.Evidence)
		f.Hint = "declare the distribution that provides " + m + " in the manifest"
		out = append(out, f)
	}
	return out
}

// LocalModules derives first-party top-level modules from repo-relative
// source paths. A leading src/ directory is skipped.
func LocalModules(files []string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range files {
		parts := strings.Split(f, "/")
		if len(parts) > 1 && parts[0] == "src" {
			parts = parts[1:]
		}
		top := parts[0]
		if len(parts) == 1 {
			top = strings.TrimSuffix(top, ".py")
		}
		if top != "" {
			out[top] = true
		}
	}
	return out
}
