// Package config loads and persists host configuration for the manifold CLI.
// Configuration lives in ~/.manifold/config.yaml and can be overridden with
// MANIFOLD_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all host configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Policy   PolicyConfig   `mapstructure:"policy" yaml:"policy"`
	Adapters AdaptersConfig `mapstructure:"adapters" yaml:"adapters"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level to log: debug, info, warn, or error.
	Level string `mapstructure:"level" yaml:"level"`
	// File is an optional path for persistent logs; empty logs to stderr only.
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// PolicyConfig selects and configures the authorization policy.
type PolicyConfig struct {
	// Mode selects the policy: "allow", "deny", "rules", or "store".
	Mode string `mapstructure:"mode" yaml:"mode"`
	// RulesPath is the YAML rules file used by the "rules" mode.
	RulesPath string `mapstructure:"rules_path" yaml:"rules_path,omitempty"`
	// StorePath is the SQLite database used by the "store" mode.
	StorePath string `mapstructure:"store_path" yaml:"store_path,omitempty"`
}

// AdaptersConfig configures the built-in adapters.
type AdaptersConfig struct {
	Sim SimConfig `mapstructure:"sim" yaml:"sim"`
}

// SimConfig configures the simulator adapter.
type SimConfig struct {
	// Enabled registers the simulator adapter in the host registry.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// TagCount is the number of generated tags.
	TagCount int `mapstructure:"tag_count" yaml:"tag_count"`
	// Period is the waveform period, e.g. "60s".
	Period string `mapstructure:"period" yaml:"period"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Policy:  PolicyConfig{Mode: "allow"},
		Adapters: AdaptersConfig{
			Sim: SimConfig{Enabled: true, TagCount: 10, Period: "60s"},
		},
	}
}

// DefaultPath returns the default config file path (~/.manifold/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".manifold", "config.yaml"), nil
}

// LoadFromPath loads configuration from the given file, creating it with
// defaults on first run.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := SaveToPath(cfg, path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("MANIFOLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath writes the configuration as YAML, creating parent directories
// as needed.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
