package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "storage:\n  driver: memory\n")

	cfg, err := Load("local", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != ":8080" || cfg.Stats.DefaultRangeDays != 7 || cfg.Log.Level != "info" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Storage.Driver != "memory" || cfg.Storage.Dir != "data" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "storage:\n  driver: file\nstats:\n  default_range_days: 14\n")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("STATS_DEFAULT_RANGE_DAYS", "30")

	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "redis" || cfg.Redis.Addr != "cache:6379" || cfg.Stats.DefaultRangeDays != 30 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsNonPositiveRange(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "stats:\n  default_range_days: 0\n")

	if _, err := Load("", dir); err == nil {
		t.Error("expected error for zero default range")
	}
}

func TestLoadMissingBase(t *testing.T) {
	if _, err := Load("", t.TempDir()); err == nil {
		t.Error("expected error when base.yaml is missing")
	}
}

func TestRepositoryConfigFiles(t *testing.T) {
	for _, env := range []string{"local", "production"} {
		cfg, err := Load(env, ".")
		if err != nil {
			t.Fatalf("%s: %v", env, err)
		}
		if cfg.Storage.Key != "habit-tracker-state" {
			t.Errorf("%s: unexpected storage key %q", env, cfg.Storage.Key)
		}
	}
}
