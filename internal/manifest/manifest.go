// Package manifest reads declared dependencies from pyproject.toml and the
// resolved package set from poetry.lock.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"aicheck/internal/errors"
	"aicheck/internal/paths"
)

// Group classifies a dependency.
type Group string

const (
	// Production dependencies are required at runtime
	Production Group = "production"
	// Development dependencies are only needed to build and test
	Development Group = "development"
)

// Extra returns the group of a PEP 621 optional-dependency set.
func Extra(name string) Group {
	return Group("extra:" + name)
}

// Format names the manifest layout a dependency was read from.
type Format string

const (
	// FormatPoetry is [tool.poetry]
	FormatPoetry Format = "poetry"
	// FormatPEP621 is [project]
	FormatPEP621 Format = "pep621"
)

// Dependency is one declared requirement.
type Dependency struct {
	Name        string `json:"name" yaml:"name"`
	VersionSpec string `json:"versionSpec" yaml:"versionSpec"`
	Group       Group  `json:"group" yaml:"group"`
}

// Manifest is the decoded dependency declaration of a project.
type Manifest struct {
	Path         string       `json:"path" yaml:"path"`
	ProjectName  string       `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	Formats      []Format     `json:"formats" yaml:"formats"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

type pyproject struct {
	Tool struct {
		Poetry struct {
			Name            string         `toml:"name"`
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
}

// Load reads root/file. A missing file returns (nil, nil) so callers can
// treat manifest checks as not applicable. A file that cannot be decoded
// returns a MANIFEST_INVALID error.
func Load(root, file string) (*Manifest, error) {
	data, err := os.ReadFile(paths.JoinRepoPath(root, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewAuditError(errors.ManifestInvalid, "cannot read "+file, err, nil)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.NewAuditError(errors.ManifestInvalid, "cannot decode "+file, err, nil)
	}
	m.Path = paths.NormalizePath(file)
	return m, nil
}

// Parse decodes pyproject.toml content.
func Parse(data []byte) (*Manifest, error) {
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	m := &Manifest{}
	poetry := doc.Tool.Poetry
	if poetry.Name != "" || poetry.Dependencies != nil || poetry.DevDependencies != nil || poetry.Group != nil {
		m.Formats = append(m.Formats, FormatPoetry)
		m.ProjectName = poetry.Name
		for name, v := range poetry.Dependencies {
			// the interpreter constraint, not a package
			if strings.EqualFold(name, "python") {
				continue
			}
			m.add(name, poetrySpec(v), Production)
		}
		for name, v := range poetry.DevDependencies {
			m.add(name, poetrySpec(v), Development)
		}
		for group, table := range poetry.Group {
			for name, v := range table.Dependencies {
				m.add(name, poetrySpec(v), groupFor(group))
			}
		}
	}

	project := doc.Project
	if project.Name != "" || project.Dependencies != nil || project.OptionalDependencies != nil {
		m.Formats = append(m.Formats, FormatPEP621)
		if m.ProjectName == "" {
			m.ProjectName = project.Name
		}
		for _, req := range project.Dependencies {
			if name, spec, ok := ParseRequirement(req); ok {
				m.add(name, spec, Production)
			}
		}
		for extra, reqs := range project.OptionalDependencies {
			for _, req := range reqs {
				if name, spec, ok := ParseRequirement(req); ok {
					m.add(name, spec, Extra(extra))
				}
			}
		}
	}

	for group, entries := range doc.DependencyGroups {
		for _, e := range entries {
			// {include-group = "x"} tables are references, not requirements
			req, ok := e.(string)
			if !ok {
				continue
			}
			if name, spec, ok := ParseRequirement(req); ok {
				m.add(name, spec, groupFor(group))
			}
		}
	}

	sort.SliceStable(m.Dependencies, func(i, j int) bool {
		a, b := m.Dependencies[i], m.Dependencies[j]
		if ra, rb := groupRank(a.Group), groupRank(b.Group); ra != rb {
			return ra < rb
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return NormalizeName(a.Name) < NormalizeName(b.Name)
	})
	return m, nil
}

func (m *Manifest) add(name, spec string, g Group) {
	m.Dependencies = append(m.Dependencies, Dependency{Name: name, VersionSpec: spec, Group: g})
}

func groupFor(name string) Group {
	switch strings.ToLower(name) {
	case "main":
		return Production
	case "dev":
		return Development
	default:
		return Group(name)
	}
}

func groupRank(g Group) int {
	switch g {
	case Production:
		return 0
	case Development:
		return 1
	default:
		return 2
	}
}

// poetrySpec renders a poetry dependency value as a version constraint.
func poetrySpec(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["version"].(string); ok {
			return s
		}
		for _, src := range []string{"git", "path", "url"} {
			if s, ok := v[src].(string); ok {
				return src + ":" + s
			}
		}
		return ""
	case []any:
		// multiple-constraint dependency
		var specs []string
		for _, item := range v {
			if s := poetrySpec(item); s != "" {
				specs = append(specs, s)
			}
		}
		return strings.Join(specs, " || ")
	case []map[string]any:
		var specs []string
		for _, item := range v {
			if s := poetrySpec(item); s != "" {
				specs = append(specs, s)
			}
		}
		return strings.Join(specs, " || ")
	default:
		return fmt.Sprint(v)
	}
}

var requirementRE = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)

// ParseRequirement splits a PEP 508 requirement into name and version
// specifier. Environment markers after ';' are dropped.
func ParseRequirement(req string) (name, spec string, ok bool) {
	if i := strings.IndexByte(req, ';'); i >= 0 {
		req = req[:i]
	}
	m := requirementRE.FindStringSubmatch(req)
	if m == nil {
		return "", "", false
	}
	spec = strings.TrimSpace(m[3])
	spec = strings.TrimSuffix(strings.TrimPrefix(spec, "("), ")")
	return m[1], strings.TrimSpace(spec), true
}

var separatorRun = regexp.MustCompile(`[-_.]+`)

// NormalizeName lowercases a distribution or module name and folds runs of
// '-', '_' and '.' into '_'.
func NormalizeName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(name), "_")
}

// InGroup returns the dependencies of g in manifest order.
func (m *Manifest) InGroup(g Group) []Dependency {
	if m == nil {
		return nil
	}
	var out []Dependency
	for _, d := range m.Dependencies {
		if d.Group == g {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the normalized names of all dependencies, or of the given
// groups only.
func (m *Manifest) Names(groups ...Group) map[string]bool {
	out := make(map[string]bool)
	if m == nil {
		return out
	}
	want := make(map[Group]bool, len(groups))
	for _, g := range groups {
		want[g] = true
	}
	for _, d := range m.Dependencies {
		if len(want) == 0 || want[d.Group] {
			out[NormalizeName(d.Name)] = true
		}
	}
	return out
}

// DevOnly returns development dependencies that are not also production
// dependencies, in manifest order.
func (m *Manifest) DevOnly() []Dependency {
	prod := m.Names(Production)
	var out []Dependency
	seen := make(map[string]bool)
	for _, d := range m.InGroup(Development) {
		n := NormalizeName(d.Name)
		if prod[n] || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, d)
	}
	return out
}
