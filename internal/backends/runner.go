package backends

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"aicheck/internal/errors"
	"aicheck/internal/logging"
)

// Output is the captured result of one process.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands.
//
// Run returns a non-nil error only when the process could not be run to
// completion: the tool is missing, the context expired, or the process could
// not be started. A non-zero exit status is reported through Output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Output, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec. Calls are serialized because the
// tools share working-directory state.
type ExecRunner struct {
	logger *slog.Logger
	sem    *semaphore
}

// NewExecRunner creates a runner that logs every command at debug level.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ExecRunner{logger: logger, sem: newSemaphore(1)}
}

// LookPath resolves a tool on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes name with args in dir.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Output, error) {
	if err := r.sem.Acquire(ctx); err != nil {
		return Output{}, err
	}
	defer r.sem.Release()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("Executed collaborator command",
		"tool", name,
		"args", strings.Join(args, " "),
		"duration", time.Since(start).String(),
	)

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return out, errors.NewAuditError(errors.Timeout, name+" timed out", ctxErr, nil)
		}
		return out, ctxErr
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	if stderrors.Is(err, exec.ErrNotFound) {
		return out, Unavailable(name, err)
	}
	return out, errors.NewAuditError(errors.CollaboratorFailed, "cannot run "+name, err, nil)
}

// Unavailable builds the error for a tool that is not installed.
func Unavailable(tool string, cause error) *errors.AuditError {
	return errors.NewAuditError(errors.CollaboratorUnavailable, tool+" is not installed", cause, installFixes(tool))
}

// Failed builds the error for a tool that ran and exited non-zero where
// success was required.
func Failed(tool string, args []string, out Output) *errors.AuditError {
	msg := strings.TrimSpace(out.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(out.Stdout)
	}
	return errors.NewAuditError(errors.CollaboratorFailed,
		tool+" "+strings.Join(args, " ")+" failed", nil, nil,
	).WithDetails(map[string]interface{}{
		"exitCode": out.ExitCode,
		"output":   firstLine(msg),
	})
}

func installFixes(tool string) []errors.FixAction {
	switch tool {
	case "poetry":
		return []errors.FixAction{{
			Type:        errors.InstallTool,
			Tool:        "poetry",
			Command:     "pipx install poetry",
			Description: "Install Poetry",
		}}
	case "npm":
		return []errors.FixAction{{
			Type:        errors.InstallTool,
			Tool:        "npm",
			Description: "Install Node.js, which ships npm",
		}}
	case "git":
		return []errors.FixAction{{
			Type:        errors.InstallTool,
			Tool:        "git",
			Description: "Install git",
		}}
	default:
		return nil
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Lines splits command output into trimmed, non-empty lines.
func Lines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
