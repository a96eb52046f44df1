package git

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"aicheck/internal/backends"
	"aicheck/internal/errors"
	"aicheck/internal/logging"
)

func TestParsePorcelain(t *testing.T) {
	stdout := " M poetry.lock\n?? yarn.lock\nR  old.lock -> package-lock.json\nA  \"dir with space/a.py\"\n"
	got := ParsePorcelain(stdout)
	want := []string{"poetry.lock", "yarn.lock", "package-lock.json", "dir with space/a.py"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePorcelain() = %v, want %v", got, want)
	}
}

func TestUncommitted(t *testing.T) {
	r := &backends.ScriptedRunner{Outputs: map[string]backends.Output{
		"git status --porcelain -- poetry.lock": {Stdout: " M poetry.lock\n"},
	}}
	g := NewGitAdapter("/repo", r, logging.Discard())

	if g.ID() != backends.BackendGit {
		t.Errorf("ID = %s", g.ID())
	}
	got, err := g.Uncommitted(context.Background(), "poetry.lock")
	if err != nil {
		t.Fatalf("Uncommitted: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"poetry.lock"}) {
		t.Errorf("Uncommitted() = %v", got)
	}
}

func TestUncommittedClean(t *testing.T) {
	g := NewGitAdapter("/repo", &backends.ScriptedRunner{}, nil)
	got, err := g.Uncommitted(context.Background(), "poetry.lock")
	if err != nil || len(got) != 0 {
		t.Errorf("Uncommitted() = %v, %v", got, err)
	}
}

func TestNotARepository(t *testing.T) {
	r := &backends.ScriptedRunner{Outputs: map[string]backends.Output{
		"git status --porcelain -- poetry.lock": {ExitCode: 128, Stderr: "fatal: not a git repository\n"},
	}}
	_, err := NewGitAdapter("/repo", r, nil).Uncommitted(context.Background(), "poetry.lock")
	var ae *errors.AuditError
	if !stderrors.As(err, &ae) || ae.Code != errors.CollaboratorFailed {
		t.Errorf("expected COLLABORATOR_FAILED, got %v", err)
	}
}
