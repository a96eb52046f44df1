package guardian

import (
	"context"
	"fmt"
	"strings"

	"aicheck/internal/entrypoint"
	"aicheck/internal/errors"
	"aicheck/internal/facts"
	"aicheck/internal/finding"
	"aicheck/internal/reconcile"
)

// RouterMounting checks that every declared router is mounted by the entry
// point.
type RouterMounting struct{}

// Name implements Check
func (RouterMounting) Name() string { return "router-mounting" }

// Run implements Check
func (RouterMounting) Run(ctx context.Context, in *Input) Result {
	if len(in.RouterFiles) == 0 {
		return skip("no router files found")
	}

	inScope := make(map[string]bool, len(in.RouterFiles))
	for _, f := range in.RouterFiles {
		inScope[f] = true
	}
	var decls []facts.Declaration
	for _, d := range in.Facts.Declarations {
		if inScope[d.File] {
			decls = append(decls, d)
		}
	}
	if len(decls) == 0 {
		return skip("no router declarations found")
	}

	cfg := in.Config.Routers
	entry, err := entrypoint.Resolve(in.Root, cfg.EntryCandidates, cfg.AppMarkers, in.Files)
	if err != nil {
		f := finding.Errorf(finding.CategoryResolution, "",
			"could not find the main application file (tried %s)", strings.Join(cfg.EntryCandidates, ", "))
		for _, fix := range errors.GetSuggestedFixes(errors.EntryPointNotFound) {
			f.Hint = fix.Description
			break
		}
		return fail(f)
	}

	mounted := reconcile.Mounted(in.Facts.Usages, entry.Path, cfg.FollowNested)
	call := reconcile.MountCall(in.Facts.UsagesIn(entry.Path), cfg.MountMethod)
	unmounted := reconcile.Unmounted(decls, mounted, entry.Path, call)
	if len(unmounted) > 0 {
		return fail(unmounted...)
	}

	res := pass()
	res.Reason = fmt.Sprintf("all %d routers mounted in %s (%s)",
		len(reconcile.DeclaredNames(decls)), entry.Path, entryOrigin(entry))
	return res
}

func entryOrigin(e entrypoint.Result) string {
	if e.Method == entrypoint.ByMarker {
		return fmt.Sprintf("found by marker %q", e.Marker)
	}
	return "entry candidate"
}
