package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader loads desired-state declarations from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses, and validates a declaration file. The format is
// chosen by extension: .yaml/.yml or .toml.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewParseError(path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, NewParseError(path, err)
		}
	default:
		return nil, &UserError{
			Message:    fmt.Sprintf("unsupported declaration format %q", ext),
			Context:    path,
			Suggestion: "Use a .yaml or .toml declaration file.",
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Env carries process-environment overrides for the CLI.
type Env struct {
	// ConfigPath overrides the declaration file location.
	ConfigPath string `env:"SSSDCFG_CONFIG"`
	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `env:"SSSDCFG_LOG_LEVEL" envDefault:"info"`
	// DryRun forces dry-run mode regardless of flags.
	DryRun bool `env:"SSSDCFG_DRY_RUN"`
}

// LoadEnv parses environment overrides.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}
