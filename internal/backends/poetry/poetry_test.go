package poetry

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"aicheck/internal/backends"
	"aicheck/internal/errors"
)

const showOutput = `fastapi           0.110.0 FastAPI framework, high performance
pydantic          2.6.0   Data validation using Python type hints
missing-pkg   (!) 1.0.0   Declared but not installed
Warning: the lock file is not up to date
requests          2.31.0  Python HTTP for Humans.
`

const exportOutput = `anyio==4.2.0 ; python_version >= "3.11" and python_version < "4.0"
fastapi==0.110.0 ; python_version >= "3.11"
uvicorn[standard]==0.27.0
-e file:///src/lib
# comment
`

func TestParseShow(t *testing.T) {
	got := ParseShow(showOutput)
	want := []string{"fastapi", "pydantic", "requests"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseShow() = %v, want %v", got, want)
	}
}

func TestParseExport(t *testing.T) {
	got := ParseExport(exportOutput)
	want := map[string]string{"anyio": "4.2.0", "fastapi": "0.110.0", "uvicorn": "0.27.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseExport() = %v, want %v", got, want)
	}
}

func TestCheckLock(t *testing.T) {
	r := &backends.ScriptedRunner{Outputs: map[string]backends.Output{
		"poetry check": {ExitCode: 1, Stderr: "pyproject.toml changed significantly since poetry.lock was last generated.\n"},
	}}
	status, err := New("/repo", r).CheckLock(context.Background())
	if err != nil {
		t.Fatalf("CheckLock: %v", err)
	}
	if status.InSync {
		t.Error("expected out of sync")
	}
	if status.Detail == "" {
		t.Error("expected detail from stderr")
	}

	ok := &backends.ScriptedRunner{}
	status, err = New("/repo", ok).CheckLock(context.Background())
	if err != nil || !status.InSync {
		t.Errorf("CheckLock() = %+v, %v; want in sync", status, err)
	}
}

func TestInstalledPackages(t *testing.T) {
	r := &backends.ScriptedRunner{Outputs: map[string]backends.Output{"poetry show --no-ansi": {Stdout: showOutput}}}
	got, err := New("/repo", r).InstalledPackages(context.Background())
	if err != nil {
		t.Fatalf("InstalledPackages: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %v", got)
	}

	failing := &backends.ScriptedRunner{Outputs: map[string]backends.Output{"poetry show --no-ansi": {ExitCode: 1, Stderr: "boom"}}}
	_, err = New("/repo", failing).InstalledPackages(context.Background())
	var ae *errors.AuditError
	if !stderrors.As(err, &ae) || ae.Code != errors.CollaboratorFailed {
		t.Errorf("expected COLLABORATOR_FAILED, got %v", err)
	}
}

func TestMissingPoetry(t *testing.T) {
	r := &backends.ScriptedRunner{Missing: map[string]bool{"poetry": true}}
	m := New("/repo", r)
	if m.IsAvailable() {
		t.Error("poetry should be unavailable")
	}
	_, err := m.CheckLock(context.Background())
	var ae *errors.AuditError
	if !stderrors.As(err, &ae) || ae.Code != errors.CollaboratorUnavailable {
		t.Fatalf("expected COLLABORATOR_UNAVAILABLE, got %v", err)
	}
	if ae.Hint() == "" {
		t.Error("expected an install hint")
	}
}

func TestRunTests(t *testing.T) {
	r := &backends.ScriptedRunner{Outputs: map[string]backends.Output{
		"poetry run pytest -q": {ExitCode: 1, Stdout: "..F\n1 failed, 2 passed in 0.12s\n"},
	}}
	res, err := New("/repo", r).RunTests(context.Background())
	if err != nil {
		t.Fatalf("RunTests: %v", err)
	}
	if res.Passed {
		t.Error("expected failure")
	}
	if res.Summary != "1 failed, 2 passed in 0.12s" {
		t.Errorf("Summary = %q", res.Summary)
	}
	if !reflect.DeepEqual(r.Calls(), []string{"poetry run pytest -q"}) {
		t.Errorf("Calls = %v", r.Calls())
	}
}
