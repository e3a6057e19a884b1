// internal/config/config.go
//
// This package handles configuration and the .postcard directory structure.
// Every directory postcard runs from gets a .postcard/ folder with a
// config.yaml and a logs/ subdirectory.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// PostcardDir is the name of the directory we create per project.
	PostcardDir = ".postcard"

	defaultFormName       = "contact"
	defaultDebounceMillis = 800
	defaultTimeoutSeconds = 30
)

const defaultProjectConfigYAML = `# postcard configuration
version: 1

# Endpoint the form is POSTed to (required before the first send).
# endpoint: https://example.com/

# Value of the form-name discriminator field included in every payload.
form_name: contact

# Quiet period, in milliseconds, before an edited field is re-validated.
debounce_ms: 800

# Overall request timeout for a submission, in seconds.
timeout_seconds: 30

# Optional subject line sent alongside the form fields.
# subject: Hello from postcard
`

// ProjectConfig models .postcard/config.yaml.
type ProjectConfig struct {
	Version        int    `yaml:"version"`
	Endpoint       string `yaml:"endpoint,omitempty"`
	FormName       string `yaml:"form_name"`
	DebounceMillis int    `yaml:"debounce_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Subject        string `yaml:"subject,omitempty"`
}

// Config holds the runtime configuration for postcard.
type Config struct {
	// ProjectDir is the directory where the user ran `postcard` from.
	ProjectDir string

	// PostcardProjectDir is ProjectDir/.postcard.
	PostcardProjectDir string

	Project ProjectConfig
}

// InitPostcardDir creates the .postcard directory structure in the given
// project directory. Called on startup before the TUI launches.
//
// Structure created:
// .postcard/
// ├── config.yaml   <- endpoint, form name, timing knobs
// └── logs/         <- submission activity log
func InitPostcardDir(projectDir string) error {
	postcardDir := filepath.Join(projectDir, PostcardDir)
	if err := os.MkdirAll(filepath.Join(postcardDir, "logs"), 0755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(postcardDir, "config.yaml"))
}

// NewConfig creates a Config populated from .postcard/config.yaml, falling
// back to defaults when the file is absent.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		PostcardProjectDir: filepath.Join(projectDir, PostcardDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.PostcardProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PostcardProjectDir, "config.yaml")
}

// Endpoint returns the configured submission URL, empty when unset.
func (c *Config) Endpoint() string {
	return c.Project.Endpoint
}

// FormName returns the discriminator value included in every payload.
func (c *Config) FormName() string {
	return c.Project.FormName
}

// DebounceInterval returns the per-field quiescence delay.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Project.DebounceMillis) * time.Millisecond
}

// Timeout returns the overall submission request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Project.TimeoutSeconds) * time.Second
}

// Subject returns the optional subject line, empty when unset.
func (c *Config) Subject() string {
	return c.Project.Subject
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:        1,
		FormName:       defaultFormName,
		DebounceMillis: defaultDebounceMillis,
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.DebounceMillis == 0 {
		pc.DebounceMillis = defaultDebounceMillis
	}
	if pc.TimeoutSeconds == 0 {
		pc.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Endpoint = strings.TrimSpace(pc.Endpoint)
	pc.FormName = strings.TrimSpace(pc.FormName)
	if pc.FormName == "" {
		pc.FormName = defaultFormName
	}
	pc.Subject = strings.TrimSpace(pc.Subject)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.DebounceMillis < 0 {
		return fmt.Errorf("debounce_ms must not be negative")
	}
	if pc.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if pc.Endpoint != "" {
		parsed, err := url.Parse(pc.Endpoint)
		if err != nil {
			return fmt.Errorf("endpoint is not a valid URL: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("endpoint must be an http(s) URL, got %q", pc.Endpoint)
		}
	}
	return nil
}

// ensureProjectConfig writes the commented default config when missing.
func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}
