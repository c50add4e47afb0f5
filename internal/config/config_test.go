package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/normalign/pkg/cache"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Check(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Journal.Backend != cache.BackendFile {
		t.Errorf("backend = %q, want file", cfg.Journal.Backend)
	}
	if cfg.Journal.TTL.Duration != 7*24*time.Hour {
		t.Errorf("ttl = %v", cfg.Journal.TTL)
	}
	if cfg.Align.Normalize {
		t.Error("normalize should default to off")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[logging]
level = "warn"

[align]
normalize = true
history_depth = 5

[journal]
backend = "redis"
namespace = "team-a"
ttl = "2h"
redis_addr = "cache:6379"

[validate]
disabled = ["open-edges"]
`)

	cfg, used, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Logging.Level != "warn" || !cfg.Align.Normalize || cfg.Align.HistoryDepth != 5 {
		t.Errorf("unexpected values: %+v %+v", cfg.Logging, cfg.Align)
	}
	if cfg.Journal.Backend != "redis" || cfg.Journal.RedisAddr != "cache:6379" || cfg.Journal.Namespace != "team-a" {
		t.Errorf("journal = %+v", cfg.Journal)
	}
	if cfg.Journal.TTL.Duration != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.Journal.TTL)
	}
	if len(cfg.Validate.Disabled) != 1 || cfg.Validate.Disabled[0] != "open-edges" {
		t.Errorf("disabled = %v", cfg.Validate.Disabled)
	}
	// Unset keys keep their defaults.
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("max_size_mb = %d, want default 10", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvConfig, "")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[logging]\nlevel = \"error\"\n")

	cfg, _, err := Load(path, Overrides{Verbose: true, LogFile: "/tmp/x.log", JournalBackend: "none", Normalize: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.File != "/tmp/x.log" || cfg.Journal.Backend != "none" || !cfg.Align.Normalize {
		t.Errorf("overrides not applied: %+v %+v %+v", cfg.Logging, cfg.Journal, cfg.Align)
	}
}

func TestLoadEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "env.toml", "[align]\nhistory_depth = 7\n")
	t.Setenv(EnvConfig, path)

	cfg, used, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path || cfg.Align.HistoryDepth != 7 {
		t.Errorf("used=%q depth=%d", used, cfg.Align.HistoryDepth)
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, used, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want none", used)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadLocalFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, dir, "normalign.toml", "[align]\nnormalize = true\n")
	t.Chdir(dir)

	cfg, used, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasSuffix(used, "normalign.toml") || !cfg.Align.Normalize {
		t.Errorf("used=%q normalize=%v", used, cfg.Align.Normalize)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvConfig, "")
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[logging\n", "loading config"},
		{"unknown key", "[align]\nsmooth = true\n", "unknown setting"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"bad backend", "[journal]\nbackend = \"s3\"\n", "journal.backend"},
		{"bad namespace", "[journal]\nnamespace = \"a b\"\n", "namespace"},
		{"negative depth", "[align]\nhistory_depth = -1\n", "history_depth"},
		{"bad ttl", "[journal]\nttl = \"soon\"\n", "loading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.body)
			_, _, err := Load(path, Overrides{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), Overrides{})
	if err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvConfig, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Journal.Backend = "mongo"
	cfg.Journal.TTL = Duration{90 * time.Minute}
	cfg.Validate.Disabled = []string{"locked-normals"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, _, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Journal.Backend != "mongo" || got.Journal.TTL.Duration != 90*time.Minute {
		t.Errorf("journal = %+v", got.Journal)
	}
	if len(got.Validate.Disabled) != 1 || got.Validate.Disabled[0] != "locked-normals" {
		t.Errorf("disabled = %v", got.Validate.Disabled)
	}
}

func TestConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("xdg only applies on unix")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if got := ConfigDir(); got != filepath.Join(xdg, "normalign") {
		t.Errorf("ConfigDir = %q", got)
	}
}

func TestCacheOptions(t *testing.T) {
	j := Default().Journal
	j.Backend = "redis"
	j.RedisDB = 2
	opts := j.CacheOptions()
	if opts.Backend != "redis" || opts.Redis.Addr != "localhost:6379" || opts.Redis.DB != 2 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Mongo.Database != "normalign" {
		t.Errorf("mongo database = %q", opts.Mongo.Database)
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	for _, want := range []string{"[logging]", "[journal]", `ttl = "168h0m0s"`} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
