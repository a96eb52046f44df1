package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"aicheck/internal/paths"
)

// SchemaVersion is the only configuration schema this build understands.
const SchemaVersion = 1

// Config represents the complete aicheck configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Sources      SourcesConfig      `json:"sources" mapstructure:"sources"`
	Routers      RoutersConfig      `json:"routers" mapstructure:"routers"`
	Dependencies DependenciesConfig `json:"dependencies" mapstructure:"dependencies"`
	Report       ReportConfig       `json:"report" mapstructure:"report"`
	Logging      LoggingConfig      `json:"logging" mapstructure:"logging"`

	// Workers bounds parallel parsing; 0 means GOMAXPROCS.
	Workers int `json:"workers" mapstructure:"workers"`
}

// SourcesConfig controls file discovery
type SourcesConfig struct {
	Extension string   `json:"extension" mapstructure:"extension"`
	Ignore    []string `json:"ignore" mapstructure:"ignore"`
	TestDirs  []string `json:"testDirs" mapstructure:"testDirs"`
}

// RoutersConfig controls the router mounting check
type RoutersConfig struct {
	Patterns        []string `json:"patterns" mapstructure:"patterns"`
	Constructor     string   `json:"constructor" mapstructure:"constructor"`
	MountMethod     string   `json:"mountMethod" mapstructure:"mountMethod"`
	EntryCandidates []string `json:"entryCandidates" mapstructure:"entryCandidates"`
	AppMarkers      []string `json:"appMarkers" mapstructure:"appMarkers"`
	FollowNested    bool     `json:"followNested" mapstructure:"followNested"`
}

// DependenciesConfig controls the dependency guardian checks
type DependenciesConfig struct {
	Manifest         string   `json:"manifest" mapstructure:"manifest"`
	LockFile         string   `json:"lockFile" mapstructure:"lockFile"`
	PackageManager   string   `json:"packageManager" mapstructure:"packageManager"`
	CriticalPackages []string `json:"criticalPackages" mapstructure:"criticalPackages"`
	ExtraStdlib      []string `json:"extraStdlib" mapstructure:"extraStdlib"`
	UseInstalled     bool     `json:"useInstalled" mapstructure:"useInstalled"`
}

// ReportConfig controls rendering
type ReportConfig struct {
	Format       string `json:"format" mapstructure:"format"`
	Color        string `json:"color" mapstructure:"color"`
	ArtifactPath string `json:"artifactPath" mapstructure:"artifactPath"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Sources: SourcesConfig{
			Extension: ".py",
			Ignore: []string{
				"__pycache__", ".venv", "venv", "node_modules", ".git",
				".tox", ".mypy_cache", ".pytest_cache", "build", "dist",
			},
			TestDirs: []string{"test", "tests"},
		},
		Routers: RoutersConfig{
			Patterns: []string{
				"**/routers/**/*.py",
				"**/routes/**/*.py",
				"**/api/**/*.py",
				"**/endpoints/**/*.py",
				"**/*router*.py",
				"**/*route*.py",
			},
			Constructor: "APIRouter",
			MountMethod: "include_router",
			EntryCandidates: []string{
				"main.py", "app.py", "application.py", "server.py", "api.py",
				"src/main.py", "src/app.py", "app/main.py", "app/app.py",
			},
			AppMarkers: []string{"FastAPI("},
		},
		Dependencies: DependenciesConfig{
			Manifest:         "pyproject.toml",
			LockFile:         "poetry.lock",
			PackageManager:   "auto",
			CriticalPackages: []string{"fastapi", "django", "flask", "sqlalchemy", "pydantic"},
			ExtraStdlib:      []string{},
			UseInstalled:     true,
		},
		Report: ReportConfig{
			Format:       "text",
			Color:        "auto",
			ArtifactPath: filepath.Join(paths.DotDir, "deployment-manifest.json"),
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// LoadConfig loads configuration from .aicheck/config.{json,yaml,toml} and
// AICHECK_* environment variables, on top of DefaultConfig.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.AddConfigPath(paths.ConfigDir(repoRoot))
	v.SetEnvPrefix("AICHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that env overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("workers", d.Workers)

	v.SetDefault("sources.extension", d.Sources.Extension)
	v.SetDefault("sources.ignore", d.Sources.Ignore)
	v.SetDefault("sources.testDirs", d.Sources.TestDirs)

	v.SetDefault("routers.patterns", d.Routers.Patterns)
	v.SetDefault("routers.constructor", d.Routers.Constructor)
	v.SetDefault("routers.mountMethod", d.Routers.MountMethod)
	v.SetDefault("routers.entryCandidates", d.Routers.EntryCandidates)
	v.SetDefault("routers.appMarkers", d.Routers.AppMarkers)
	v.SetDefault("routers.followNested", d.Routers.FollowNested)

	v.SetDefault("dependencies.manifest", d.Dependencies.Manifest)
	v.SetDefault("dependencies.lockFile", d.Dependencies.LockFile)
	v.SetDefault("dependencies.packageManager", d.Dependencies.PackageManager)
	v.SetDefault("dependencies.criticalPackages", d.Dependencies.CriticalPackages)
	v.SetDefault("dependencies.extraStdlib", d.Dependencies.ExtraStdlib)
	v.SetDefault("dependencies.useInstalled", d.Dependencies.UseInstalled)

	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("report.color", d.Report.Color)
	v.SetDefault("report.artifactPath", d.Report.ArtifactPath)

	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Save writes the configuration to .aicheck/config.json
func (c *Config) Save(repoRoot string) error {
	dir := paths.ConfigDir(repoRoot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != SchemaVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Routers.Constructor == "" {
		return &ConfigError{Field: "routers.constructor", Message: "must not be empty"}
	}
	if c.Routers.MountMethod == "" {
		return &ConfigError{Field: "routers.mountMethod", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.Sources.Extension, ".") {
		return &ConfigError{Field: "sources.extension", Message: "must start with '.'"}
	}
	switch c.Report.Format {
	case "text", "json", "yaml":
	default:
		return &ConfigError{Field: "report.format", Message: "must be text, json or yaml"}
	}
	switch c.Report.Color {
	case "auto", "always", "never":
	default:
		return &ConfigError{Field: "report.color", Message: "must be auto, always or never"}
	}
	switch c.Dependencies.PackageManager {
	case "auto", "poetry", "npm", "none":
	default:
		return &ConfigError{Field: "dependencies.packageManager", Message: "must be auto, poetry, npm or none"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
