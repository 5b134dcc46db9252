package cli

import (
	"io"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", xdg)

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(xdg, appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", "")
		t.Setenv("HOME", home)

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("config override", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		c := New(io.Discard, LogInfo)
		c.cfg.Cache.Dir = "/srv/railyard-cache"

		dir, err := c.cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if dir != "/srv/railyard-cache" {
			t.Errorf("cacheDir() = %q, want the configured dir", dir)
		}
	})
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	tests := []struct {
		cfg  CacheConfig
		want string
	}{
		{CacheConfig{Backend: backendFile}, filepath.Join("/tmp/xdg", appName)},
		{CacheConfig{Backend: backendFile, Dir: "/data/c"}, "/data/c"},
		{CacheConfig{Backend: backendRedis, RedisURL: "redis://cache:6379/2"}, "redis://cache:6379/2"},
		{CacheConfig{Backend: backendNone}, backendNone},
	}
	for _, tt := range tests {
		c := New(io.Discard, LogInfo)
		c.cfg.Cache = tt.cfg
		if got := c.cacheLocation(); got != tt.want {
			t.Errorf("cacheLocation(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}
