// Package reconcile diffs fact sets and turns unresolved differences into
// findings. Every function here is pure: it reads its arguments and returns
// findings in a deterministic order.
package reconcile

import (
	"fmt"
	"sort"

	"aicheck/internal/facts"
	"aicheck/internal/finding"
)

// Mounted returns the names mounted by calls in the entry file. When nested
// is set, a name mounted by a mounted router (at any depth) also counts.
func Mounted(usages []facts.Usage, entry string, nested bool) map[string]bool {
	mounted := make(map[string]bool)
	for _, u := range usages {
		if u.File == entry {
			mounted[u.Name] = true
		}
	}
	if !nested {
		return mounted
	}

	for changed := true; changed; {
		changed = false
		for _, u := range usages {
			if mounted[u.Name] || !mounted[u.Receiver] {
				continue
			}
			mounted[u.Name] = true
			changed = true
		}
	}
	return mounted
}

// Unmounted computes declared minus mounted. Names are the join key, so a
// name declared in several files yields one finding listing every file.
// mountCall is the call the hint suggests, e.g. "app.include_router".
func Unmounted(decls []facts.Declaration, mounted map[string]bool, entry, mountCall string) []finding.Finding {
	byName := make(map[string][]facts.Declaration)
	for _, d := range decls {
		byName[d.Name] = append(byName[d.Name], d)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		if !mounted[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]finding.Finding, 0, len(names))
	for _, name := range names {
		f := finding.Errorf(finding.CategoryReconciliation, name,
			"router %s is declared but not mounted in %s", name, entry)
		for _, d := range byName[name] {
			f.Evidence = append(f.Evidence, finding.Evidence{
				Name:   d.Name,
				Path:   d.File,
				Line:   d.Span.Line,
				Column: d.Span.Column,
			})
		}
		finding.SortEvidence(f.Evidence)
		f.Hint = fmt.Sprintf("add %s(%s) to %s", mountCall, name, entry)
		out = append(out, f)
	}
	return out
}

// MountCall names the mount call used in the entry file: the receiver of the
// first entry usage joined with method, or "app.<method>" when the entry
// file mounts nothing yet.
func MountCall(entryUsages []facts.Usage, method string) string {
	for _, u := range entryUsages {
		if u.Receiver != "" {
			return u.Receiver + "." + method
		}
	}
	return "app." + method
}

// DeclaredNames returns the distinct declared names, sorted.
func DeclaredNames(decls []facts.Declaration) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range decls {
		if !seen[d.Name] {
			seen[d.Name] = true
			out = append(out, d.Name)
		}
	}
	sort.Strings(out)
	return out
}
