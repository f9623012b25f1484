package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the current directory.
const DefaultConfigFile = "kubeship.yaml"

// Load reads the configuration from path. An empty path looks for
// kubeship.yaml in the current directory and falls back to the built-in
// defaults when it does not exist. Defaults are applied to missing fields
// and the result is validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	// #nosec G304 -- path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals, defaults, and validates configuration YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in unset fields with the built-in defaults.
func (c *Config) applyDefaults() {
	if c.Namespace == "" {
		c.Namespace = "default"
	}
	if len(c.Apps) == 0 {
		c.Apps = Default().Apps
		return
	}
	for i := range c.Apps {
		app := &c.Apps[i]
		if app.Image == "" {
			app.Image = app.Name
		}
		if app.Tag == "" {
			app.Tag = "latest"
		}
		if app.BuildContext == "" {
			app.BuildContext = "./" + app.Name
		}
		if app.Port == 0 {
			app.Port = 80
		}
		if app.Replicas == 0 {
			app.Replicas = 2
		}
		if app.Path == "" {
			app.Path = "/" + app.Name
		}
	}
}
