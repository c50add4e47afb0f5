package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func init() {
	retryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "journal:a"); hit || err != nil {
		t.Fatalf("empty cache Get = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "journal:a", []byte(`{"x":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "journal:a")
	if err != nil || !hit || string(data) != `{"x":1}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "journal:a", []byte("v2"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := c.Get(ctx, "journal:a"); string(data) != "v2" {
		t.Errorf("overwrite: got %q", data)
	}

	if err := c.Delete(ctx, "journal:a"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "journal:a"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "journal:a"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "report:x", []byte("data"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "report:x"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("report:x")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("journal:bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "journal:bad"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v; want silent miss", hit, err)
	}
}

func TestFileCacheClearAndPrune(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	if err := c.Set(ctx, "journal:a", []byte("a"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "journal:b", []byte("b"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "report:c", []byte("c"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)

	n, err := c.Prune()
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v; want 1 expired entry", n, err)
	}
	if _, hit, _ := c.Get(ctx, "journal:a"); !hit {
		t.Error("Prune removed a live entry")
	}

	n, err = c.Clear()
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v; want 2", n, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear left %d shard directories", len(entries))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default is file", Options{Dir: dir}, false},
		{"file", Options{Backend: BackendFile, Dir: dir}, false},
		{"none", Options{Backend: BackendNone}, false},
		{"file without dir", Options{Backend: BackendFile}, true},
		{"unknown", Options{Backend: "memcached"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				c.Close()
			}
		})
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	j1 := k.JournalKey("/scenes/a.yaml")
	if !strings.HasPrefix(j1, "journal:") || j1 == k.JournalKey("/scenes/b.yaml") {
		t.Errorf("JournalKey unexpected: %s", j1)
	}

	r1 := k.ReportKey("abc", []string{"open-edges", "zero-normals"})
	r2 := k.ReportKey("abc", []string{"zero-normals", "open-edges"})
	r3 := k.ReportKey("abc", []string{"zero-normals"})
	if r1 != r2 {
		t.Error("validator order should not change ReportKey")
	}
	if r1 == r3 {
		t.Error("different validator sets should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "studio:")
	inner := NewDefaultKeyer()

	if got, want := scoped.JournalKey("a.yaml"), "studio:"+inner.JournalKey("a.yaml"); got != want {
		t.Errorf("JournalKey = %s, want %s", got, want)
	}
	if got := scoped.ReportKey("h", nil); !strings.HasPrefix(got, "studio:report:") {
		t.Errorf("ReportKey = %s", got)
	}
}

func TestKeyType(t *testing.T) {
	tests := map[string]string{
		"journal:abc":         "journal",
		"studio:report:abc":   "report",
		"user:1:journal:ffff": "journal",
		"plain":               "unknown",
	}
	for key, want := range tests {
		if got := keyType(key); got != want {
			t.Errorf("keyType(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should be retryable and unwrap to the cause")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("message not preserved: %s", err)
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		fail      int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"non-retryable stops", 5, false, 1, true},
		{"recovers after retry", 1, true, 2, false},
		{"gives up after three", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.fail {
					if tt.retryable {
						return Retryable(ErrUnavailable)
					}
					return ErrCacheMiss
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("NORMALIGN_TEST_REDIS")
	if addr == "" {
		t.Skip("NORMALIGN_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("NORMALIGN_TEST_MONGO")
	if uri == "" {
		t.Skip("NORMALIGN_TEST_MONGO not set")
	}
	ctx := context.Background()
	c, err := NewMongoCache(ctx, MongoConfig{URI: uri, Database: "normalign_test"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := NewScopedKeyer(nil, "test:"+t.Name()+":").JournalKey("backend.yaml")

	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key still present after Delete")
	}
}
