// Package locate discovers candidate source files under a project root.
package locate

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"aicheck/internal/paths"
)

// Options controls discovery.
type Options struct {
	// Patterns are doublestar globs over repo-relative slash paths. Empty
	// means every file with Extension.
	Patterns []string
	// Extension restricts results, e.g. ".py".
	Extension string
	// Ignore lists directory names that are never descended into.
	Ignore []string
}

// Locator walks a project root.
type Locator struct {
	root   string
	opts   Options
	ignore map[string]bool
}

// New creates a Locator.
func New(root string, opts Options) (*Locator, error) {
	if root == "" {
		return nil, fmt.Errorf("empty project root")
	}
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, d := range opts.Ignore {
		ignore[d] = true
	}
	return &Locator{root: root, opts: opts, ignore: ignore}, nil
}

// Find returns the sorted, deduplicated repo-relative paths that match at
// least one pattern. No match is an empty result, not an error.
func (l *Locator) Find() ([]string, error) {
	return l.walk(l.opts.Patterns)
}

// All returns every file with the configured extension, ignoring patterns.
func (l *Locator) All() ([]string, error) {
	return l.walk(nil)
}

func (l *Locator) walk(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.root {
				return err
			}
			// unreadable subtree
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != l.root && l.ignore[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if l.opts.Extension != "" && !strings.HasSuffix(d.Name(), l.opts.Extension) {
			return nil
		}

		rel, err := paths.CanonicalizePath(path, l.root)
		if err != nil {
			return err
		}
		if paths.HasSegment(rel, l.ignore) || seen[rel] {
			return nil
		}
		if len(patterns) > 0 {
			ok, err := matchAny(patterns, rel)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		seen[rel] = true
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.root, err)
	}

	sort.Strings(out)
	return out, nil
}

func matchAny(patterns []string, rel string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, rel)
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Find is a convenience wrapper around New and Locator.Find.
func Find(root string, opts Options) ([]string, error) {
	l, err := New(root, opts)
	if err != nil {
		return nil, err
	}
	return l.Find()
}
