package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAuditError(t *testing.T) {
	cause := errors.New("underlying error")
	fixes := []FixAction{{Type: RunCommand, Command: "poetry lock"}}

	err := NewAuditError(CollaboratorFailed, "poetry.lock is out of sync", cause, fixes)

	if err.Code != CollaboratorFailed {
		t.Errorf("Code = %v, want %v", err.Code, CollaboratorFailed)
	}
	if err.Message != "poetry.lock is out of sync" {
		t.Errorf("Message = %q", err.Message)
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestNewAuditError_DefaultFixes(t *testing.T) {
	err := NewAuditError(CollaboratorUnavailable, "poetry not installed", nil, nil)
	if len(err.SuggestedFixes) == 0 {
		t.Fatal("expected registered fixes for COLLABORATOR_UNAVAILABLE")
	}
	if err.SuggestedFixes[0].Type != InstallTool {
		t.Errorf("fix type = %v, want %v", err.SuggestedFixes[0].Type, InstallTool)
	}
}

func TestAuditError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      CollaboratorUnavailable,
			message:   "poetry not installed",
			cause:     errors.New("executable file not found in $PATH"),
			wantParts: []string{"COLLABORATOR_UNAVAILABLE", "poetry not installed", "executable file not found"},
		},
		{
			name:      "without cause",
			code:      EntryPointNotFound,
			message:   "no main application file",
			wantParts: []string{"ENTRYPOINT_NOT_FOUND", "no main application file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAuditError(tt.code, tt.message, tt.cause, nil).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func TestAuditError_Unwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewAuditError(CollaboratorFailed, "poetry check failed", cause, nil)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	var target *AuditError
	if !errors.As(error(err), &target) {
		t.Fatal("errors.As should match *AuditError")
	}
	if target.Code != CollaboratorFailed {
		t.Errorf("Code = %v", target.Code)
	}
}

func TestAuditError_Hint(t *testing.T) {
	err := NewAuditError(CollaboratorFailed, "out of sync", nil, []FixAction{
		{Type: RunCommand, Command: "poetry lock", Description: "Regenerate the lock file"},
	})
	if got := err.Hint(); got != "run 'poetry lock' (Regenerate the lock file)" {
		t.Errorf("Hint() = %q", got)
	}

	bare := NewAuditError(InternalError, "boom", nil, nil)
	if bare.Hint() != "" {
		t.Errorf("Hint() = %q, want empty", bare.Hint())
	}
}

func TestWithDetails(t *testing.T) {
	err := NewAuditError(ParseError, "bad file", nil, nil).WithDetails(map[string]interface{}{"path": "a.py"})
	d, ok := err.Details.(map[string]interface{})
	if !ok || d["path"] != "a.py" {
		t.Errorf("Details = %v", err.Details)
	}
}
