package manifest

import (
	"reflect"
	"testing"

	"aicheck/internal/testutil"
)

const lockV1 = `[[package]]
name = "fastapi"
version = "0.110.0"
category = "main"
optional = false

[[package]]
name = "pytest"
version = "8.0.0"
category = "dev"
optional = false

[[package]]
name = "SQLAlchemy"
version = "2.0.25"
category = "main"
optional = false

[metadata]
lock-version = "1.1"
`

const lockV2 = `[[package]]
name = "pydantic"
version = "2.6.0"
groups = ["main"]

[[package]]
name = "ruff"
version = "0.3.0"
groups = ["dev"]
`

func TestLoadLock(t *testing.T) {
	root := testutil.NewProject(t, map[string]string{"poetry.lock": lockV1})
	lock, err := LoadLock(root, "poetry.lock")
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if len(lock.Packages) != 3 {
		t.Fatalf("Packages = %+v", lock.Packages)
	}
	if !lock.Has("sqlalchemy") || !lock.Has("pytest") || lock.Has("flask") {
		t.Error("Has() mismatch")
	}

	want := map[string]string{"fastapi": "0.110.0", "SQLAlchemy": "2.0.25"}
	if got := lock.MainVersions(); !reflect.DeepEqual(got, want) {
		t.Errorf("MainVersions() = %v, want %v", got, want)
	}
}

func TestLoadLockGroups(t *testing.T) {
	root := testutil.NewProject(t, map[string]string{"poetry.lock": lockV2})
	lock, err := LoadLock(root, "poetry.lock")
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if got := lock.MainVersions(); !reflect.DeepEqual(got, map[string]string{"pydantic": "2.6.0"}) {
		t.Errorf("MainVersions() = %v", got)
	}
}

func TestLoadLockMissing(t *testing.T) {
	lock, err := LoadLock(t.TempDir(), "poetry.lock")
	if err != nil || lock != nil {
		t.Errorf("LoadLock() = %v, %v", lock, err)
	}
	if lock.Has("x") || len(lock.MainVersions()) != 0 {
		t.Error("nil lock should be empty")
	}
}

func TestLoadLockInvalid(t *testing.T) {
	root := testutil.NewProject(t, map[string]string{"poetry.lock": "[[package]\n"})
	if _, err := LoadLock(root, "poetry.lock"); err == nil {
		t.Error("expected error")
	}
}
