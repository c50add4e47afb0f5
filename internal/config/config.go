// Package config loads normalign settings from config.toml.
//
// Values are layered: defaults < config file < command-line flags. The file
// is looked up as ./normalign.toml, then config.toml in [ConfigDir], unless
// an explicit path is given through --config or NORMALIGN_CONFIG.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/normalign/pkg/cache"
	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/normals"
)

// Config holds all settings.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Align    AlignConfig    `toml:"align"`
	Journal  JournalConfig  `toml:"journal"`
	Validate ValidateConfig `toml:"validate"`
}

// LoggingConfig controls console and file logging. File output rotates
// once it reaches MaxSizeMB.
type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// AlignConfig holds alignment defaults.
type AlignConfig struct {
	Normalize    bool `toml:"normalize"`
	HistoryDepth int  `toml:"history_depth"`
}

// JournalConfig selects where undo history is kept.
type JournalConfig struct {
	Backend   string   `toml:"backend"` // file, redis, mongo or none
	Dir       string   `toml:"dir"`
	Namespace string   `toml:"namespace"`
	TTL       Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ValidateConfig holds validation defaults.
type ValidateConfig struct {
	Disabled []string `toml:"disabled"`
	Fix      bool     `toml:"fix"`
}

// Duration is a time.Duration written as a string such as "168h".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Align: AlignConfig{
			HistoryDepth: normals.DefaultHistoryDepth,
		},
		Journal: JournalConfig{
			Backend:       cache.BackendFile,
			Dir:           DefaultJournalDir(),
			TTL:           Duration{7 * 24 * time.Hour},
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "normalign",
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Check rejects settings that cannot work.
func (c *Config) Check() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return errors.New(errors.ErrCodeInvalidInput, "logging.level %q must be one of %s", c.Logging.Level, strings.Join(logLevels, ", "))
	}
	if c.Align.HistoryDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "align.history_depth must not be negative")
	}
	switch c.Journal.Backend {
	case cache.BackendFile:
		if c.Journal.Dir == "" {
			return errors.New(errors.ErrCodeInvalidInput, "journal.dir is required for the file backend")
		}
	case cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "journal.backend %q must be file, redis, mongo or none", c.Journal.Backend)
	}
	return errors.ValidateNamespace(c.Journal.Namespace)
}

// CacheOptions converts the journal section for cache.Open.
func (j JournalConfig) CacheOptions() cache.Options {
	return cache.Options{
		Backend: j.Backend,
		Dir:     j.Dir,
		Redis: cache.RedisConfig{
			Addr:     j.RedisAddr,
			Password: j.RedisPassword,
			DB:       j.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:        j.MongoURI,
			Database:   j.MongoDatabase,
			Collection: j.MongoCollection,
		},
	}
}

// String renders the config as TOML.
func (c *Config) String() string {
	data, err := encode(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}

// DefaultJournalDir is the file journal location under the user cache
// directory.
func DefaultJournalDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "normalign", "journal")
	}
	return filepath.Join(dir, "normalign", "journal")
}
