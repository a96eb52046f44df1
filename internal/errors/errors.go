package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseError indicates a source file could not be parsed
	ParseError ErrorCode = "PARSE_ERROR"
	// EntryPointNotFound indicates no aggregation file could be located
	EntryPointNotFound ErrorCode = "ENTRYPOINT_NOT_FOUND"
	// ManifestInvalid indicates the dependency manifest exists but cannot be decoded
	ManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// CollaboratorUnavailable indicates an external tool is not installed
	CollaboratorUnavailable ErrorCode = "COLLABORATOR_UNAVAILABLE"
	// CollaboratorFailed indicates an external tool ran and failed
	CollaboratorFailed ErrorCode = "COLLABORATOR_FAILED"
	// Timeout indicates the audit deadline expired
	Timeout ErrorCode = "TIMEOUT"
	// ConfigInvalid indicates the configuration was rejected
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
	// EditSource suggests a source change
	EditSource FixActionType = "edit-source"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// AuditError represents an audit error with code, message, and suggestions
type AuditError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewAuditError creates a new AuditError. When fixes is nil the registered
// fixes for code are attached.
func NewAuditError(code ErrorCode, message string, cause error, fixes []FixAction) *AuditError {
	if fixes == nil {
		fixes = GetSuggestedFixes(code)
	}
	return &AuditError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: fixes,
	}
}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AuditError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AuditError) WithDetails(details interface{}) *AuditError {
	e.Details = details
	return e
}

// Hint returns the first suggested fix as a single line, or "".
func (e *AuditError) Hint() string {
	if len(e.SuggestedFixes) == 0 {
		return ""
	}
	fix := e.SuggestedFixes[0]
	if fix.Command != "" {
		return fmt.Sprintf("run '%s' (%s)", fix.Command, fix.Description)
	}
	return fix.Description
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	EntryPointNotFound: {
		{
			Type:        EditSource,
			Description: "Add main.py or app.py, or list the entry file under routers.entryCandidates",
		},
	},
	CollaboratorUnavailable: {
		{
			Type:        InstallTool,
			Tool:        "poetry",
			Command:     "pipx install poetry",
			Description: "Install the package manager used by this project",
		},
	},
	ManifestInvalid: {
		{
			Type:        RunCommand,
			Command:     "poetry check",
			Safe:        true,
			Description: "Validate pyproject.toml",
		},
	},
	ConfigInvalid: {
		{
			Type:        EditSource,
			Description: "Fix .aicheck/config.json",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
