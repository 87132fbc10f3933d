// Package respectconfig loads the tool's own configuration: a .respectrc.yaml
// file in the project directory, layered under command-line flag overrides,
// mirroring how axe's ReadRC/ResolveAppName resolve .axerc settings.
package respectconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk .respectrc.yaml shape: tool-wide defaults that can
// still be overridden per-invocation by flags.
type Config struct {
	// Target and Configuration name the default Xcode target/configuration
	// to lint when --target/--configuration are not given.
	Target        string `yaml:"target"`
	Configuration string `yaml:"configuration"`

	// DefaultConfig is the path (relative to the project directory) of the
	// default-config text file to load as the target's @LintDefaultConfig.
	DefaultConfig string `yaml:"default_config"`

	// IgnoreMissing/IgnoreUnused are glob pattern lists read from the file.
	// No command applies them; only @LintIgnore* directives filter results.
	IgnoreMissing []string `yaml:"ignore_missing"`
	IgnoreUnused  []string `yaml:"ignore_unused"`
}

// Read parses the .respectrc.yaml file in dir, returning a zero Config (not
// an error) if the file does not exist.
func Read(dir string) (Config, error) {
	path := filepath.Join(dir, ".respectrc.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveTarget returns flagValue if set, else cfg.Target, else an error —
// mirroring axe's ResolveAppName precedence (flag overrides rc file).
func ResolveTarget(cfg Config, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Target != "" {
		return cfg.Target, nil
	}
	return "", fmt.Errorf("target not specified. Use --target or set target in .respectrc.yaml")
}

// ResolveConfiguration returns flagValue if set, else cfg.Configuration, else
// the conventional "Debug" default.
func ResolveConfiguration(cfg Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Configuration != "" {
		return cfg.Configuration
	}
	return "Debug"
}
