// Package config loads dumper settings from an optional YAML file.
// Command-line flags override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the dumper's settings.
type Config struct {
	// Process is the target process name.
	Process string `yaml:"process"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`
	// Formats selects which artifact formats to generate.
	Formats []string `yaml:"formats"`
	// LogLevel sets the diagnostic verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Process:  "cs2.exe",
		Output:   "output",
		Formats:  []string{"cs", "hpp", "json", "rs"},
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults. Unset fields keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
