// Package config loads and validates the warren.yml workspace
// configuration kept inside the .warren directory.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name under the .warren directory.
const FileName = "warren.yml"

// WarrenConfig represents the top-level warren.yml configuration.
type WarrenConfig struct {
	Version   string           `yaml:"version"`
	Writer    string           `yaml:"writer,omitempty"`    // Identity recorded in the journal; defaults to $USER
	Reconcile *ReconcileConfig `yaml:"reconcile,omitempty"` // Reconcile behavior settings
}

// ReconcileConfig specifies reconcile behavior.
type ReconcileConfig struct {
	AutoRepair *bool `yaml:"auto_repair,omitempty"` // Whether reconcile repairs drift without --repair (default: false)
}

// Default returns the configuration written by `warren init`.
func Default() *WarrenConfig {
	autoRepair := false
	return &WarrenConfig{
		Version:   "1.0",
		Writer:    defaultWriter(),
		Reconcile: &ReconcileConfig{AutoRepair: &autoRepair},
	}
}

// Validate performs strict validation on the configuration and applies
// defaults for omitted optional sections.
func (c *WarrenConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Writer == "" {
		c.Writer = defaultWriter()
	}

	if c.Reconcile == nil {
		c.Reconcile = &ReconcileConfig{}
	}
	if c.Reconcile.AutoRepair == nil {
		autoRepair := false
		c.Reconcile.AutoRepair = &autoRepair
	}

	return nil
}

// Load reads and validates warren.yml from the specified path.
func Load(path string) (*WarrenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config WarrenConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to the specified path.
func (c *WarrenConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// defaultWriter derives a writer identity from the environment.
func defaultWriter() string {
	if w := os.Getenv("WARREN_WRITER"); w != "" {
		return w
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
