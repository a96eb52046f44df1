// Package poetry drives the Poetry CLI as a collaborator.
package poetry

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"aicheck/internal/backends"
)

var (
	checkArgs  = []string{"check"}
	showArgs   = []string{"show", "--no-ansi"}
	exportArgs = []string{"export", "--without-hashes", "--format", "requirements.txt"}
	testArgs   = []string{"run", "pytest", "-q"}
)

// Manager implements backends.PythonManager for Poetry projects.
type Manager struct {
	root   string
	runner backends.Runner
}

// New creates a Manager rooted at the project directory.
func New(root string, runner backends.Runner) *Manager {
	return &Manager{root: root, runner: runner}
}

// ID returns the backend identifier
func (m *Manager) ID() backends.BackendID {
	return backends.BackendPoetry
}

// IsAvailable reports whether poetry is on PATH
func (m *Manager) IsAvailable() bool {
	_, err := m.runner.LookPath("poetry")
	return err == nil
}

func (m *Manager) run(ctx context.Context, args []string) (backends.Output, error) {
	return m.runner.Run(ctx, m.root, "poetry", args...)
}

// CheckLock runs `poetry check`. A non-zero exit means out of sync.
func (m *Manager) CheckLock(ctx context.Context) (backends.LockStatus, error) {
	out, err := m.run(ctx, checkArgs)
	if err != nil {
		return backends.LockStatus{}, err
	}
	if out.ExitCode != 0 {
		detail := strings.TrimSpace(out.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(out.Stdout)
		}
		return backends.LockStatus{InSync: false, Detail: detail}, nil
	}
	return backends.LockStatus{InSync: true}, nil
}

// InstalledPackages runs `poetry show --no-ansi`.
func (m *Manager) InstalledPackages(ctx context.Context) ([]string, error) {
	out, err := m.run(ctx, showArgs)
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, backends.Failed("poetry", showArgs, out)
	}
	return ParseShow(out.Stdout), nil
}

// ExportRequirements runs `poetry export` in requirements.txt format.
func (m *Manager) ExportRequirements(ctx context.Context) (map[string]string, error) {
	out, err := m.run(ctx, exportArgs)
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, backends.Failed("poetry", exportArgs, out)
	}
	return ParseExport(out.Stdout), nil
}

// RunTests runs pytest inside the Poetry environment.
func (m *Manager) RunTests(ctx context.Context) (backends.TestResult, error) {
	out, err := m.run(ctx, testArgs)
	if err != nil {
		return backends.TestResult{}, err
	}
	return backends.TestResult{
		Passed:  out.ExitCode == 0,
		Command: "poetry " + strings.Join(testArgs, " "),
		Summary: lastLine(out.Stdout),
	}, nil
}

var packageName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ParseShow extracts package names from `poetry show` output. Packages
// flagged "(!)" are declared but not installed and are left out.
func ParseShow(stdout string) []string {
	var out []string
	for _, line := range backends.Lines(stdout) {
		fields := strings.Fields(line)
		if !packageName.MatchString(fields[0]) {
			continue
		}
		if len(fields) > 1 && fields[1] == "(!)" {
			continue
		}
		out = append(out, fields[0])
	}
	sort.Strings(out)
	return out
}

// ParseExport maps `name==version` lines to their versions. Environment
// markers after ';' and extras in brackets are dropped.
func ParseExport(stdout string) map[string]string {
	out := make(map[string]string)
	for _, line := range backends.Lines(stdout) {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		name, version, ok := strings.Cut(line, "==")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		out[name] = strings.TrimSpace(version)
	}
	return out
}

func lastLine(s string) string {
	lines := backends.Lines(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
