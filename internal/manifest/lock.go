package manifest

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"aicheck/internal/errors"
	"aicheck/internal/paths"
)

// LockedPackage is one [[package]] entry of poetry.lock.
type LockedPackage struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Category string   `toml:"category"`
	Groups   []string `toml:"groups"`
	Optional bool     `toml:"optional"`
}

// Lock is a decoded poetry.lock.
type Lock struct {
	Path     string          `toml:"-"`
	Packages []LockedPackage `toml:"package"`
}

// LoadLock reads root/file. A missing file returns (nil, nil).
func LoadLock(root, file string) (*Lock, error) {
	data, err := os.ReadFile(paths.JoinRepoPath(root, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewAuditError(errors.ManifestInvalid, "cannot read "+file, err, nil)
	}

	var lock Lock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errors.NewAuditError(errors.ManifestInvalid, "cannot decode "+file, err, nil)
	}
	lock.Path = paths.NormalizePath(file)
	return &lock, nil
}

// Has reports whether a package with the given name is locked.
func (l *Lock) Has(name string) bool {
	if l == nil {
		return false
	}
	n := NormalizeName(name)
	for _, p := range l.Packages {
		if NormalizeName(p.Name) == n {
			return true
		}
	}
	return false
}

// IsMain reports whether a locked package belongs to the main group. Lock
// files that record neither category nor groups are treated as main.
func (p LockedPackage) IsMain() bool {
	if p.Category == "" && len(p.Groups) == 0 {
		return true
	}
	if p.Category == "main" {
		return true
	}
	for _, g := range p.Groups {
		if g == "main" {
			return true
		}
	}
	return false
}

// MainVersions maps main-group package names to their locked versions.
func (l *Lock) MainVersions() map[string]string {
	out := make(map[string]string)
	if l == nil {
		return out
	}
	for _, p := range l.Packages {
		if p.IsMain() {
			out[p.Name] = p.Version
		}
	}
	return out
}
