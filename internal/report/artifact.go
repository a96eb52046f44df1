package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// Artifact is the deployment manifest written after a clean run.
type Artifact struct {
	GeneratedAt      string            `json:"generated_at"`
	Dependencies     map[string]string `json:"dependencies"`
	DeploymentChecks map[string]bool   `json:"deployment_checks"`
}

// artifactSchema is the contract downstream deploy tooling reads.
const artifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["generated_at", "dependencies", "deployment_checks"],
  "additionalProperties": false,
  "properties": {
    "generated_at": {"type": "string", "format": "date-time"},
    "dependencies": {
      "type": "object",
      "additionalProperties": {"type": "string", "minLength": 1}
    },
    "deployment_checks": {
      "type": "object",
      "additionalProperties": {"type": "boolean"}
    }
  }
}`

// NewArtifact builds an artifact stamped with now in UTC.
func NewArtifact(now time.Time, deps map[string]string, checks map[string]bool) *Artifact {
	a := &Artifact{
		GeneratedAt:      now.UTC().Format(time.RFC3339),
		Dependencies:     make(map[string]string, len(deps)),
		DeploymentChecks: make(map[string]bool, len(checks)),
	}
	for k, v := range deps {
		a.Dependencies[k] = v
	}
	for k, v := range checks {
		a.DeploymentChecks[k] = v
	}
	return a
}

// Validate checks a against the artifact schema.
func (a *Artifact) Validate() error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewGoLoader(a),
	)
	if err != nil {
		return fmt.Errorf("validating deployment manifest: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("invalid deployment manifest: %s", strings.Join(msgs, "; "))
}

// WriteArtifact validates a and writes it to path, creating parent
// directories.
func WriteArtifact(path string, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := encodeJSON(a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
