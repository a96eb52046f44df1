package reconcile

import (
	"bytes"
	"path"
	"sort"
	"strings"

	"aicheck/internal/finding"
	"aicheck/internal/manifest"
	"aicheck/internal/paths"
)

// Text is a file's raw content.
type Text struct {
	Path string
	Data []byte
}

// IsTestFile reports whether a repo-relative path is test code: it sits under
// a test directory, or its name follows pytest conventions.
func IsTestFile(rel string, testDirs map[string]bool) bool {
	if paths.HasSegment(rel, testDirs) {
		return true
	}
	base := path.Base(rel)
	return base == "conftest.py" || strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
}

// DevLeakage flags development-only dependencies that appear in non-test
// files. Detection is raw substring containment of "import <name>" or
// "from <name>", so matches inside strings and comments count and
// `__import__` or importlib lookups do not.
func DevLeakage(files []Text, devDeps []manifest.Dependency, testDirs map[string]bool) []finding.Finding {
	var out []finding.Finding
	for _, dep := range devDeps {
		needles := [][]byte{[]byte("import " + dep.Name), []byte("from " + dep.Name)}
		var ev []finding.Evidence
		for _, f := range files {
			if IsTestFile(f.Path, testDirs) {
				continue
			}
			for _, n := range needles {
				if bytes.Contains(f.Data, n) {
					line, col := position(f.Data, n)
					ev = append(ev, finding.Evidence{Name: dep.Name, Path: f.Path, Line: line, Column: col})
					break
				}
			}
		}
		if len(ev) == 0 {
			continue
		}
		finding.SortEvidence(ev)
		f := finding.Errorf(finding.CategoryReconciliation, dep.Name,
			"development dependency %s is used in production code", dep.Name)
		f.Evidence = ev
		f.Hint = "move " + dep.Name + " to the main dependency group or drop the import"
		out = append(out, f)
	}
	sortBySubject(out)
	return out
}

// position returns the 1-based line and byte column of the first needle.
func position(data, needle []byte) (line, col int) {
	i := bytes.Index(data, needle)
	if i < 0 {
		return 0, 0
	}
	start := bytes.LastIndexByte(data[:i], '\n') + 1
	return bytes.Count(data[:i], []byte("\n")) + 1, i - start + 1
}

func sortBySubject(fs []finding.Finding) {
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].Subject < fs[j].Subject })
}
