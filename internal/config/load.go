package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// EnvConfig names an explicit config file when --config is not given.
const EnvConfig = "NORMALIGN_CONFIG"

// Overrides are command-line values applied on top of the file. Zero values
// leave the loaded setting unchanged.
type Overrides struct {
	Verbose        bool
	LogFile        string
	JournalBackend string
	Normalize      bool
}

// Load reads defaults, then the config file, then applies o. path may be
// empty to search the standard locations. It returns the path that was
// read, or "" when no file was found.
func Load(path string, o Overrides) (*Config, string, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	cfg.apply(o)
	if err := cfg.Check(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func (c *Config) apply(o Overrides) {
	if o.Verbose {
		c.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	if o.JournalBackend != "" {
		c.Journal.Backend = o.JournalBackend
	}
	if o.Normalize {
		c.Align.Normalize = true
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./normalign.toml",
		filepath.Join(ConfigDir(), "config.toml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "normalign")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "normalign")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "normalign")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "normalign")
	}
}

// DefaultPath is where Save writes.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// loadFromFile merges a TOML file into cfg. Unknown keys are an error so
// typos do not pass silently.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown setting %q", undecoded[0].String())
	}
	return nil
}

func encode(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
