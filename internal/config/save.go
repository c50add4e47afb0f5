package config

import (
	"os"
	"path/filepath"
)

// Save writes the config to DefaultPath.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := encode(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
