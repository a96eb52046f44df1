// Package version holds the build identity of aicheck.
package version

// Overridable at link time:
// go build -ldflags "-X aicheck/internal/version.Version=0.3.0 -X aicheck/internal/version.Commit=abc123"
var (
	// Version is the semantic version of aicheck
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns the version with a short commit suffix when one is known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line version banner printed by `aicheck version`.
func Full() string {
	return "aicheck " + Version + "\n" +
		"commit: " + Commit + "\n" +
		"built:  " + BuildDate
}
