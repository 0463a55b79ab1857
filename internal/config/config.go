// Package config loads and stores CLI configuration in the XDG config dir.
// Environment variables override the file for a single run without
// rewriting it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tagsense/cli/internal/manifest"
	"tagsense/cli/internal/xdg"
)

// Environment overrides.
const (
	EnvInferenceURL = "TAGSENSE_INFERENCE_URL"
	EnvBackendURL   = "TAGSENSE_BACKEND_URL"
	EnvModel        = "TAGSENSE_MODEL"
	EnvLogLevel     = "TAGSENSE_LOG_LEVEL"
)

// Config holds the CLI settings.
type Config struct {
	LogLevel     string `json:"log_level" yaml:"log_level"`
	InferenceURL string `json:"inference_url" yaml:"inference_url"`
	BackendURL   string `json:"backend_url" yaml:"backend_url"`
	Model        string `json:"model" yaml:"model"`
	// StatusRetries is how many extra attempts a status check makes after
	// a connection failure.
	StatusRetries int `json:"status_retries" yaml:"status_retries"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		LogLevel:     "info",
		InferenceURL: manifest.DefaultInferenceURL,
		BackendURL:   manifest.DefaultBackendURL,
		Model:        "tinyllama",
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Path reports where the config file lives.
func Path() (string, error) { return path() }

// Load reads configuration; missing file returns defaults. Fields left empty
// in the file keep their defaults, and environment overrides are applied last.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	applyEnv(&c)
	return c, nil
}

// LoadFile is Load without environment overrides.
func LoadFile() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		var file Config
		if err := json.Unmarshal(data, &file); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
		c = merge(c, file)
	}
	return c, nil
}

func merge(base, file Config) Config {
	if file.LogLevel != "" {
		base.LogLevel = file.LogLevel
	}
	if file.InferenceURL != "" {
		base.InferenceURL = file.InferenceURL
	}
	if file.BackendURL != "" {
		base.BackendURL = file.BackendURL
	}
	if file.Model != "" {
		base.Model = file.Model
	}
	if file.StatusRetries > 0 {
		base.StatusRetries = file.StatusRetries
	}
	return base
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvInferenceURL)); v != "" {
		c.InferenceURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.BackendURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Set updates one setting by its file key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "log_level":
		c.LogLevel = value
	case "inference_url":
		c.InferenceURL = strings.TrimRight(value, "/")
	case "backend_url":
		c.BackendURL = strings.TrimRight(value, "/")
	case "model":
		c.Model = value
	case "status_retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("status_retries must be a non-negative integer, got %q", value)
		}
		c.StatusRetries = n
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Keys lists the settable keys.
func Keys() []string {
	return []string{"backend_url", "inference_url", "log_level", "model", "status_retries"}
}

// Manifest returns the service addresses this configuration points at.
func (c Config) Manifest() manifest.Manifest {
	return manifest.Manifest{InferenceURL: c.InferenceURL, BackendURL: c.BackendURL}
}
