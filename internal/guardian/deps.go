package guardian

import (
	"context"
	"strings"

	"aicheck/internal/finding"
	"aicheck/internal/manifest"
	"aicheck/internal/reconcile"
)

// manifestUsable returns a skip result when the manifest is absent and a
// failing result when it could not be decoded.
func manifestUsable(in *Input) (Result, bool) {
	if in.ManifestErr != nil {
		f := collaboratorFinding(in.Config.Dependencies.Manifest, in.ManifestErr)
		f.Category = finding.CategoryParse
		return fail(f), false
	}
	if in.Manifest == nil {
		return skip("no " + in.Config.Dependencies.Manifest + " found"), false
	}
	return Result{}, true
}

// LockSync asks the package manager whether the lock matches the manifest.
type LockSync struct{}

// Name implements Check
func (LockSync) Name() string { return "lock-sync" }

// Run implements Check
func (LockSync) Run(ctx context.Context, in *Input) Result {
	if res, ok := manifestUsable(in); !ok {
		return res
	}
	if in.Python == nil {
		return skip("no Python package manager configured")
	}
	if f, missing := missingTool(in.Python); missing {
		return fail(f)
	}

	status, err := in.Python.CheckLock(ctx)
	if err != nil {
		return fail(collaboratorFinding(string(in.Python.ID()), err))
	}
	if !status.InSync {
		f := finding.Errorf(finding.CategoryReconciliation, in.Config.Dependencies.LockFile,
			"%s is out of sync with %s", in.Config.Dependencies.LockFile, in.Config.Dependencies.Manifest)
		if status.Detail != "" {
			f.Evidence = []finding.Evidence{{Name: firstLine(status.Detail)}}
		}
		f.Hint = "run 'poetry lock' to fix"
		return fail(f)
	}
	return pass()
}

// LockCoverage checks offline that every declared dependency is locked.
type LockCoverage struct{}

// Name implements Check
func (LockCoverage) Name() string { return "lock-coverage" }

// Run implements Check
func (LockCoverage) Run(ctx context.Context, in *Input) Result {
	if res, ok := manifestUsable(in); !ok {
		return res
	}
	if in.LockErr != nil {
		f := collaboratorFinding(in.Config.Dependencies.LockFile, in.LockErr)
		f.Category = finding.CategoryParse
		return fail(f)
	}
	if in.Lock == nil {
		return skip("no " + in.Config.Dependencies.LockFile + " found")
	}
	if unlocked := reconcile.Unlocked(in.Manifest, in.Lock); len(unlocked) > 0 {
		return fail(unlocked...)
	}
	return pass()
}

// ImportAvailability checks every absolute import against the standard
// library, first-party modules, declared and installed packages.
type ImportAvailability struct{}

// Name implements Check
func (ImportAvailability) Name() string { return "import-availability" }

// Run implements Check
func (ImportAvailability) Run(ctx context.Context, in *Input) Result {
	if res, ok := manifestUsable(in); !ok {
		return res
	}

	deps := in.Config.Dependencies
	avail := reconcile.Availability{
		Stdlib:    reconcile.StdlibAllowlist(deps.ExtraStdlib...),
		Local:     reconcile.LocalModules(in.Files),
		Declared:  in.Manifest.Names(),
		Installed: map[string]bool{},
	}

	var findings []finding.Finding
	if in.Python != nil && deps.UseInstalled {
		if f, missing := missingTool(in.Python); missing {
			// still reconcile against the manifest
			findings = append(findings, f)
		} else {
			findings = append(findings, installedPackages(ctx, in, avail.Installed)...)
		}
	}

	findings = append(findings, reconcile.MissingDependencies(in.Facts.Imports, avail)...)
	if len(findings) > 0 {
		return fail(findings...)
	}
	return pass()
}

// installedPackages marks what the package manager reports as installed. An
// unusable tool yields a finding and leaves into untouched.
func installedPackages(ctx context.Context, in *Input, into map[string]bool) []finding.Finding {
	installed, err := in.Python.InstalledPackages(ctx)
	if err != nil {
		return []finding.Finding{collaboratorFinding(string(in.Python.ID()), err)}
	}
	for _, name := range installed {
		into[manifest.NormalizeName(name)] = true
	}
	return nil
}

// DevSeparation flags development-only dependencies imported by
// production code.
type DevSeparation struct{}

// Name implements Check
func (DevSeparation) Name() string { return "dev-separation" }

// Run implements Check
func (DevSeparation) Run(ctx context.Context, in *Input) Result {
	if res, ok := manifestUsable(in); !ok {
		return res
	}
	devOnly := in.Manifest.DevOnly()
	if len(devOnly) == 0 {
		return skip("no development-only dependencies declared")
	}

	texts := make([]reconcile.Text, 0, len(in.Sources))
	for _, sf := range in.Sources {
		texts = append(texts, reconcile.Text{Path: sf.Path, Data: sf.Text})
	}
	testDirs := make(map[string]bool, len(in.Config.Sources.TestDirs))
	for _, d := range in.Config.Sources.TestDirs {
		testDirs[d] = true
	}

	if leaks := reconcile.DevLeakage(texts, devOnly, testDirs); len(leaks) > 0 {
		return fail(leaks...)
	}
	return pass()
}

// VersionPinning warns about critical dependencies declared with a range.
// It never fails.
type VersionPinning struct{}

// Name implements Check
func (VersionPinning) Name() string { return "version-pinning" }

// Run implements Check
func (VersionPinning) Run(ctx context.Context, in *Input) Result {
	if in.ManifestErr != nil || in.Manifest == nil {
		return skip("no usable manifest")
	}
	return pass(reconcile.UnpinnedCritical(in.Manifest, in.Config.Dependencies.CriticalPackages)...)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
