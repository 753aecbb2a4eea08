package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[render]
formats = ["svg", "json"]
title = "Team Interfaces"

[cache]
backend = "redis"
redis_addr = "cache.internal:6379"

[server]
addr = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Render.Formats, []string{"svg", "json"}) {
		t.Errorf("Formats = %v", cfg.Render.Formats)
	}
	if cfg.Render.Title != "Team Interfaces" {
		t.Errorf("Title = %q", cfg.Render.Title)
	}
	// Untouched sections keep their defaults
	if cfg.Render.Height != Default().Render.Height {
		t.Errorf("Height = %q, want default", cfg.Render.Height)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache.internal:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	path := writeConfig(t, "[cache]\nbackend = \"memcached\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("invalid backend should fail")
	}
}

func TestLoadInvalidFormat(t *testing.T) {
	path := writeConfig(t, "[render]\nformats = [\"pdf\"]\n")
	if _, err := Load(path); err == nil {
		t.Fatal("invalid format should fail")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "not [valid toml")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file should fail")
	}
}
