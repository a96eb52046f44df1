package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, SchemaVersion)
	}
	if cfg.Routers.Constructor != "APIRouter" {
		t.Errorf("Constructor = %q", cfg.Routers.Constructor)
	}
	if cfg.Routers.MountMethod != "include_router" {
		t.Errorf("MountMethod = %q", cfg.Routers.MountMethod)
	}
	if len(cfg.Routers.Patterns) != 6 {
		t.Errorf("len(Patterns) = %d, want 6", len(cfg.Routers.Patterns))
	}
	if cfg.Routers.EntryCandidates[0] != "main.py" {
		t.Errorf("first entry candidate = %q, want main.py", cfg.Routers.EntryCandidates[0])
	}
	if cfg.Dependencies.Manifest != "pyproject.toml" {
		t.Errorf("Manifest = %q", cfg.Dependencies.Manifest)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Routers.Constructor != "APIRouter" {
		t.Errorf("expected defaults, got constructor %q", cfg.Routers.Constructor)
	}
}

func TestLoadConfig_JSONOverlay(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".aicheck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "routers": {"constructor": "Blueprint", "mountMethod": "register_blueprint"},
  "workers": 2
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Routers.Constructor != "Blueprint" {
		t.Errorf("Constructor = %q, want Blueprint", cfg.Routers.Constructor)
	}
	if cfg.Routers.MountMethod != "register_blueprint" {
		t.Errorf("MountMethod = %q", cfg.Routers.MountMethod)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	// untouched keys keep defaults
	if cfg.Dependencies.LockFile != "poetry.lock" {
		t.Errorf("LockFile = %q, want poetry.lock", cfg.Dependencies.LockFile)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".aicheck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "dependencies:\n  criticalPackages: [fastapi]\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Dependencies.CriticalPackages) != 1 || cfg.Dependencies.CriticalPackages[0] != "fastapi" {
		t.Errorf("CriticalPackages = %v", cfg.Dependencies.CriticalPackages)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("AICHECK_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".aicheck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(root); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Routers.FollowNested = true
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !loaded.Routers.FollowNested {
		t.Error("FollowNested should survive Save/Load")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad version", func(c *Config) { c.Version = 9 }, "version"},
		{"empty constructor", func(c *Config) { c.Routers.Constructor = "" }, "routers.constructor"},
		{"empty mount", func(c *Config) { c.Routers.MountMethod = "" }, "routers.mountMethod"},
		{"bad extension", func(c *Config) { c.Sources.Extension = "py" }, "sources.extension"},
		{"bad format", func(c *Config) { c.Report.Format = "xml" }, "report.format"},
		{"bad color", func(c *Config) { c.Report.Color = "sometimes" }, "report.color"},
		{"bad manager", func(c *Config) { c.Dependencies.PackageManager = "pip" }, "dependencies.packageManager"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}
