package backends

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// ScriptedRunner replays canned outputs. It lets tests exercise collaborator
// code without the real tools installed.
type ScriptedRunner struct {
	// Outputs is keyed by the command line, e.g. "poetry check".
	Outputs map[string]Output
	// Errors is keyed like Outputs and takes precedence.
	Errors map[string]error
	// Missing lists tools LookPath should not find.
	Missing map[string]bool

	mu    sync.Mutex
	calls []string
}

// Run returns the scripted result. Unscripted commands succeed with no output.
func (s *ScriptedRunner) Run(ctx context.Context, dir, name string, args ...string) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	key := strings.Join(append([]string{name}, args...), " ")

	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.mu.Unlock()

	if s.Missing[name] {
		return Output{}, Unavailable(name, exec.ErrNotFound)
	}
	if err, ok := s.Errors[key]; ok {
		return Output{}, err
	}
	return s.Outputs[key], nil
}

// LookPath fails for tools listed in Missing.
func (s *ScriptedRunner) LookPath(name string) (string, error) {
	if s.Missing[name] {
		return "", exec.ErrNotFound
	}
	return "/usr/bin/" + name, nil
}

// Calls returns the command lines run so far, in order.
func (s *ScriptedRunner) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
