package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DotDir is the per-project directory holding config and generated artifacts.
const DotDir = ".aicheck"

// CanonicalizePath converts an absolute path to a repo-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to repo root
// - Returns repo-relative path with forward slashes
func CanonicalizePath(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		resolved = absolutePath
	}

	rootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		rootResolved = repoRoot
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// NormalizePath converts backslashes to forward slashes
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRepoPath joins a repo root with a canonical (slash separated) path
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	normalized := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}

// ConfigDir returns <repoRoot>/.aicheck
func ConfigDir(repoRoot string) string {
	return filepath.Join(repoRoot, DotDir)
}

// ArtifactPath resolves the deployment manifest location. Relative paths are
// taken from the repo root.
func ArtifactPath(repoRoot, configured string) string {
	if configured == "" {
		configured = filepath.Join(DotDir, "deployment-manifest.json")
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return JoinRepoPath(repoRoot, configured)
}

// HasSegment reports whether any directory segment of the canonical path rel
// is in segments. The file name itself is not considered.
func HasSegment(rel string, segments map[string]bool) bool {
	parts := strings.Split(NormalizePath(rel), "/")
	for _, p := range parts[:len(parts)-1] {
		if segments[p] {
			return true
		}
	}
	return false
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
