package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// GoldenDir is where golden files live, relative to the package under test.
const GoldenDir = "testdata/golden"

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

var rfc3339 = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})`)

// Normalize replaces timestamps and temp-dir prefixes so output is stable
// across runs and machines.
func Normalize(data []byte, root string) []byte {
	out := rfc3339.ReplaceAll(data, []byte("<TIMESTAMP>"))
	if root != "" {
		out = bytes.ReplaceAll(out, []byte(filepath.ToSlash(root)), []byte("<ROOT>"))
		out = bytes.ReplaceAll(out, []byte(root), []byte("<ROOT>"))
	}
	return out
}

// CompareGolden compares got against testdata/golden/<name>, failing with a
// diff on mismatch. With -update the golden file is rewritten instead.
func CompareGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join(GoldenDir, name)

	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("Failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, got, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		diff := unifiedDiff(string(expected), string(got), goldenPath)
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			name, diff, t.Name())
	}
}

// unifiedDiff produces a line-by-line diff with a little leading context.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	n := len(expectedLines)
	if len(gotLines) > n {
		n = len(gotLines)
	}

	lastContext := -1
	for i := 0; i < n; i++ {
		var exp, act string
		if i < len(expectedLines) {
			exp = expectedLines[i]
		}
		if i < len(gotLines) {
			act = gotLines[i]
		}
		if exp == act {
			continue
		}

		start := i - 2
		if start <= lastContext {
			start = lastContext + 1
		}
		if start < 0 {
			start = 0
		}
		if start < i {
			fmt.Fprintf(&buf, "@@ line %d @@\n", start+1)
		}
		for j := start; j < i && j < len(expectedLines); j++ {
			buf.WriteString(" " + expectedLines[j] + "\n")
		}
		if i < len(expectedLines) {
			buf.WriteString("-" + exp + "\n")
		}
		if i < len(gotLines) {
			buf.WriteString("+" + act + "\n")
		}
		lastContext = i
	}

	return buf.String()
}
