// Package entrypoint locates the file expected to mount every router.
package entrypoint

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"aicheck/internal/paths"
)

// ErrNotFound is returned when neither a candidate nor a marker matched.
var ErrNotFound = errors.New("entry point not found")

// Method records how the entry point was found.
type Method string

const (
	// ByCandidate means a ranked candidate path existed on disk
	ByCandidate Method = "candidate"
	// ByMarker means a file contained an initialization marker
	ByMarker Method = "marker"
)

// Result is a resolved entry point.
type Result struct {
	Path   string `json:"path"`
	Method Method `json:"method"`
	Marker string `json:"marker,omitempty"`
}

// Resolve returns the first candidate (repo-relative) that exists as a file
// under root. Otherwise it sniffs the raw text of files, in the given order,
// for any marker. files are repo-relative and typically sorted.
func Resolve(root string, candidates, markers, files []string) (Result, error) {
	for _, c := range candidates {
		info, err := os.Stat(paths.JoinRepoPath(root, c))
		if err == nil && info.Mode().IsRegular() {
			return Result{Path: paths.NormalizePath(c), Method: ByCandidate}, nil
		}
	}

	for _, f := range files {
		text, err := os.ReadFile(paths.JoinRepoPath(root, f))
		if err != nil {
			continue
		}
		if m := firstMarker(text, markers); m != "" {
			return Result{Path: paths.NormalizePath(f), Method: ByMarker, Marker: m}, nil
		}
	}

	return Result{}, fmt.Errorf("%w: tried %d candidates and %d files", ErrNotFound, len(candidates), len(files))
}

func firstMarker(text []byte, markers []string) string {
	for _, m := range markers {
		if m != "" && bytes.Contains(text, []byte(m)) {
			return m
		}
	}
	return ""
}
