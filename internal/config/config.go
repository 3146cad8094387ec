// Package config resolves run settings from defaults, an optional YAML file
// and PNGFIT_* environment variables. Command-line flags are applied on top
// by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pngfit/internal/processor"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "PNGFIT_"

// Config holds all resolved settings for one run.
type Config struct {
	Directory   string `yaml:"directory"`
	MaxEdge     int    `yaml:"max_edge"`
	DryRun      bool   `yaml:"dry_run"`
	Backup      bool   `yaml:"backup"`
	Workers     int    `yaml:"workers"`
	Force       bool   `yaml:"force"`
	HideSkipped bool   `yaml:"hide_skipped"`
	ReportPath  string `yaml:"report"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Directory: ".",
		MaxEdge:   processor.DefaultMaxEdge,
		Workers:   processor.DefaultWorkers(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PNGFIT_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("DIRECTORY"); ok {
		c.Directory = v
	}
	if err := envInt("MAX_EDGE", &c.MaxEdge); err != nil {
		return err
	}
	if err := envInt("WORKERS", &c.Workers); err != nil {
		return err
	}
	for key, dst := range map[string]*bool{
		"DRY_RUN":      &c.DryRun,
		"BACKUP":       &c.Backup,
		"FORCE":        &c.Force,
		"HIDE_SKIPPED": &c.HideSkipped,
		"VERBOSE":      &c.Verbose,
	} {
		if err := envBool(key, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup("REPORT"); ok {
		c.ReportPath = v
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return errors.New("directory must not be empty")
	}
	if c.MaxEdge <= 0 {
		return fmt.Errorf("max size must be positive, got %d", c.MaxEdge)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Options converts the settings into pipeline options.
func (c *Config) Options() processor.Options {
	return processor.Options{
		Directory: c.Directory,
		MaxEdge:   c.MaxEdge,
		Preview:   c.DryRun,
		Backup:    c.Backup,
		Workers:   c.Workers,
		Force:     c.Force,
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
	}
	*dst = b
	return nil
}
