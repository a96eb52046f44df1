package reconcile

import (
	"strings"

	"aicheck/internal/finding"
	"aicheck/internal/manifest"
)

// UnpinnedCritical warns about production dependencies on the critical list
// whose constraint is a caret, tilde or wildcard range.
func UnpinnedCritical(m *manifest.Manifest, critical []string) []finding.Finding {
	want := make(map[string]bool, len(critical))
	for _, c := range critical {
		want[manifest.NormalizeName(c)] = true
	}

	var out []finding.Finding
	for _, d := range m.InGroup(manifest.Production) {
		if !want[manifest.NormalizeName(d.Name)] {
			continue
		}
		if !strings.ContainsAny(d.VersionSpec, "^~*") {
			continue
		}
		f := finding.Warnf(finding.CategoryReconciliation, d.Name,
			"%s: %s should use an exact version", d.Name, d.VersionSpec)
		f.Evidence = []finding.Evidence{{Name: d.Name, Path: m.Path}}
		out = append(out, f)
	}
	sortBySubject(out)
	return out
}

// Unlocked reports declared production and development dependencies that
// have no entry in the lock file.
func Unlocked(m *manifest.Manifest, lock *manifest.Lock) []finding.Finding {
	lockPath := "the lock file"
	if lock != nil {
		lockPath = lock.Path
	}
	var out []finding.Finding
	seen := make(map[string]bool)
	for _, g := range []manifest.Group{manifest.Production, manifest.Development} {
		for _, d := range m.InGroup(g) {
			n := manifest.NormalizeName(d.Name)
			if seen[n] || lock.Has(d.Name) {
				continue
			}
			seen[n] = true
			f := finding.Errorf(finding.CategoryReconciliation, d.Name,
				"%s dependency %s is missing from %s", g, d.Name, lockPath)
			f.Evidence = []finding.Evidence{{Name: d.Name, Path: m.Path}}
			f.Hint = "poetry lock"
			out = append(out, f)
		}
	}
	return out
}
