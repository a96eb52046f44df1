// Package git reports working-tree state through the git CLI.
package git

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"aicheck/internal/backends"
	"aicheck/internal/paths"
)

// GitAdapter implements backends.VCS
type GitAdapter struct {
	repoRoot string
	runner   backends.Runner
	logger   *slog.Logger
}

// NewGitAdapter creates a new Git backend adapter
func NewGitAdapter(repoRoot string, runner backends.Runner, logger *slog.Logger) *GitAdapter {
	return &GitAdapter{repoRoot: repoRoot, runner: runner, logger: logger}
}

// ID returns the backend identifier
func (g *GitAdapter) ID() backends.BackendID {
	return backends.BackendGit
}

// IsAvailable checks if git is installed
func (g *GitAdapter) IsAvailable() bool {
	_, err := g.runner.LookPath("git")
	return err == nil
}

// executeGitCommand runs a git command and returns its stdout
func (g *GitAdapter) executeGitCommand(ctx context.Context, args ...string) (string, error) {
	out, err := g.runner.Run(ctx, g.repoRoot, "git", args...)
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", backends.Failed("git", args, out)
	}
	return out.Stdout, nil
}

// Uncommitted runs `git status --porcelain` for the given paths and returns
// the ones with staged, unstaged or untracked changes.
func (g *GitAdapter) Uncommitted(ctx context.Context, files ...string) ([]string, error) {
	args := append([]string{"status", "--porcelain", "--"}, files...)
	stdout, err := g.executeGitCommand(ctx, args...)
	if err != nil {
		return nil, err
	}

	dirty := ParsePorcelain(stdout)
	if g.logger != nil {
		g.logger.Debug("Checked working tree", "paths", len(files), "dirty", len(dirty))
	}
	return dirty, nil
}

// ParsePorcelain extracts paths from `git status --porcelain` (v1) output.
// Renames report their destination.
func ParsePorcelain(stdout string) []string {
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		if len(line) < 4 {
			continue
		}
		p := line[3:]
		if _, after, ok := strings.Cut(p, " -> "); ok {
			p = after
		}
		if strings.HasPrefix(p, `"`) {
			if unq, err := strconv.Unquote(p); err == nil {
				p = unq
			}
		}
		out = append(out, paths.NormalizePath(p))
	}
	return out
}
