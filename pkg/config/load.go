package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = "raytracer.yaml"

// Load loads configuration with priority: defaults < file. An empty path
// falls back to DefaultFileName if it exists, and to pure defaults if not.
// The result is not validated; callers apply flag overrides first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err != nil {
			return cfg, nil
		}
		path = DefaultFileName
	}

	if err := loadFromFile(cfg, path); err != nil {
		return nil, errors.Wrapf(err, "loading config from %s", path)
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "writing config")
}
