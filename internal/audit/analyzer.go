package audit

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"aicheck/internal/backends"
	"aicheck/internal/backends/git"
	"aicheck/internal/backends/npm"
	"aicheck/internal/backends/poetry"
	"aicheck/internal/config"
	"aicheck/internal/errors"
	"aicheck/internal/facts"
	"aicheck/internal/guardian"
	"aicheck/internal/locate"
	"aicheck/internal/logging"
	"aicheck/internal/manifest"
	"aicheck/internal/paths"
	"aicheck/internal/report"
	"aicheck/internal/syntax"
)

// Auditor runs audit passes over one project root.
type Auditor struct {
	root   string
	cfg    *config.Config
	runner backends.Runner
	logger *slog.Logger
}

// NewAuditor creates an auditor. runner executes every collaborator
// process; tests pass a backends.ScriptedRunner.
func NewAuditor(root string, cfg *config.Config, runner backends.Runner, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Auditor{root: root, cfg: cfg, runner: runner, logger: logger}
}

// Run performs one pass. Findings never surface as err; err is reserved for
// problems that prevent a report, such as a missed deadline.
func (a *Auditor) Run(ctx context.Context, opts Options) (*Outcome, error) {
	start := time.Now()
	if !syntax.IsAvailable() {
		return nil, errors.NewAuditError(errors.InternalError,
			"Python parsing requires CGO (tree-sitter); rebuild with CGO_ENABLED=1", nil, nil)
	}

	in, err := a.collect(ctx)
	if err != nil {
		return nil, contextError(err)
	}

	engine := guardian.NewEngine(a.logger, guardian.Checks(opts.Suite, opts.RunTests)...)
	results, err := engine.Run(ctx, in)
	if err != nil {
		return nil, contextError(err)
	}

	out := &Outcome{
		Report:      report.New(string(opts.Suite), results),
		Files:       in.Files,
		RouterFiles: in.RouterFiles,
	}
	if out.Report.Passed && opts.WriteArtifact {
		if err := a.writeArtifact(ctx, in, out, opts); err != nil {
			return nil, contextError(err)
		}
	}

	a.logger.Info("Audit completed",
		"suite", string(opts.Suite),
		"passed", out.Report.Passed,
		"errors", out.Report.Errors,
		"warnings", out.Report.Warnings,
		"duration", time.Since(start).String(),
	)
	return out, nil
}

// collect runs the locate, parse and extract stages and gathers the
// manifest, lock and collaborators.
func (a *Auditor) collect(ctx context.Context) (*guardian.Input, error) {
	loc, err := locate.New(a.root, locate.Options{
		Patterns:  a.cfg.Routers.Patterns,
		Extension: a.cfg.Sources.Extension,
		Ignore:    a.cfg.Sources.Ignore,
	})
	if err != nil {
		return nil, err
	}
	routerFiles, err := loc.Find()
	if err != nil {
		return nil, fmt.Errorf("locating router files: %w", err)
	}
	files, err := loc.All()
	if err != nil {
		return nil, fmt.Errorf("locating source files: %w", err)
	}
	a.logger.Debug("Located source files", "files", len(files), "routerFiles", len(routerFiles))

	sources, sets, err := a.parseAll(ctx, files)
	if err != nil {
		return nil, err
	}

	in := &guardian.Input{
		Root:        a.root,
		Config:      a.cfg,
		Files:       files,
		RouterFiles: routerFiles,
		Sources:     sources,
		Facts:       facts.Merge(sets...),
	}
	deps := a.cfg.Dependencies
	in.Manifest, in.ManifestErr = manifest.Load(a.root, deps.Manifest)
	in.Lock, in.LockErr = manifest.LoadLock(a.root, deps.LockFile)
	a.attachCollaborators(in)
	return in, nil
}

// parseAll parses and extracts every file with bounded parallelism. Results
// are stored by index so the merged facts do not depend on completion order.
func (a *Auditor) parseAll(ctx context.Context, files []string) ([]*syntax.SourceFile, []facts.Set, error) {
	sources := make([]*syntax.SourceFile, len(files))
	sets := make([]facts.Set, len(files))
	patterns := facts.Patterns{
		Constructor: a.cfg.Routers.Constructor,
		MountMethod: a.cfg.Routers.MountMethod,
	}

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			sf, err := syntax.ParseFile(gctx, a.root, rel)
			if err != nil {
				return err
			}
			if sf.Err != nil {
				a.logger.Debug("Parse failed", "file", rel, "error", sf.Err.Error())
			}
			sources[i] = sf
			sets[i] = facts.Extract(sf, patterns)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sources, sets, nil
}

// attachCollaborators picks the package manager, test runner and version
// control backends that apply to this project.
func (a *Auditor) attachCollaborators(in *guardian.Input) {
	pm := a.cfg.Dependencies.PackageManager
	hasPyproject := paths.Exists(paths.JoinRepoPath(a.root, a.cfg.Dependencies.Manifest))
	hasPackageJSON := paths.Exists(paths.JoinRepoPath(a.root, "package.json"))

	switch {
	case pm == "none":
	case hasPyproject && (pm == "auto" || pm == "poetry"):
		m := poetry.New(a.root, a.runner)
		in.Python = m
		in.Tests = m
	case hasPackageJSON && (pm == "auto" || pm == "npm"):
		in.Tests = npm.New(a.root, a.runner)
	}

	in.VCS = git.NewGitAdapter(a.root, a.runner, a.logger)

	a.logger.Debug("Collaborators selected",
		"packageManager", pm,
		"python", in.Python != nil,
		"tests", in.Tests != nil,
	)
}

// writeArtifact records exact production versions and the check flags. The
// versions come from the package manager export, falling back to the lock.
func (a *Auditor) writeArtifact(ctx context.Context, in *guardian.Input, out *Outcome, opts Options) error {
	var deps map[string]string
	if in.Python != nil {
		exported, err := in.Python.ExportRequirements(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Warn("Export failed, using lock file versions", "error", err.Error())
		} else {
			deps = exported
		}
	}
	if deps == nil {
		deps = in.Lock.MainVersions()
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	artifact := report.NewArtifact(now(), deps, out.Report.CheckFlags())

	path := paths.ArtifactPath(a.root, a.cfg.Report.ArtifactPath)
	if err := report.WriteArtifact(path, artifact); err != nil {
		return errors.NewAuditError(errors.InternalError, "could not write the deployment manifest", err, nil)
	}
	out.Artifact = artifact
	if rel, err := filepath.Rel(a.root, path); err == nil {
		out.Report.Artifact = filepath.ToSlash(rel)
	} else {
		out.Report.Artifact = path
	}
	a.logger.Info("Deployment manifest written", "path", path, "dependencies", len(deps))
	return nil
}

// contextError maps a missed deadline to a TIMEOUT error.
func contextError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewAuditError(errors.Timeout, "audit did not finish before the deadline", err, nil)
	}
	return err
}
