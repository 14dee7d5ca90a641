// Package config loads the study server configuration from an optional YAML
// file with sensible local-study defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the study server settings.
type Config struct {
	// Port the HTTP server listens on.
	Port int `yaml:"port"`
	// DataDir holds the bbolt dataset. Empty selects the in-memory
	// repository (events and answers are lost on exit).
	DataDir string `yaml:"data_dir"`
	// CSVPath is the exported dataset file, one row per participant.
	CSVPath string `yaml:"csv_path"`
	// LoginAttemptLimit is the number of login tries before the flow
	// terminates in failure.
	LoginAttemptLimit int `yaml:"login_attempt_limit"`
	// MaxSecretGlyphs caps the picker input length, counted in grapheme
	// clusters. Zero disables the cap.
	MaxSecretGlyphs int `yaml:"max_secret_glyphs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:              8600,
		DataDir:           "./data",
		CSVPath:           "./data/data.csv",
		LoginAttemptLimit: 3,
		MaxSecretGlyphs:   0,
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; an empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.LoginAttemptLimit < 1 {
		return fmt.Errorf("invalid login_attempt_limit %d: must be at least 1", c.LoginAttemptLimit)
	}
	if c.MaxSecretGlyphs < 0 {
		return fmt.Errorf("invalid max_secret_glyphs %d: must not be negative", c.MaxSecretGlyphs)
	}
	return nil
}
