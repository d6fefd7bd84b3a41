package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("Theme = %q, want system", cfg.UI.Theme)
	}
	if got := cfg.Catalog.TTL(); got != 24*time.Hour {
		t.Errorf("TTL() = %v, want the 24h default", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.UI.Theme = "dark"
	cfg.Account.URL = "https://example.supabase.co"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", loaded.UI.Theme)
	}
	if loaded.Account.URL != "https://example.supabase.co" {
		t.Errorf("Account.URL = %q", loaded.Account.URL)
	}
}

func TestLoadCorruptFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("corrupt config must fall back to defaults, Theme = %q", cfg.UI.Theme)
	}
}

func TestAutoPopulateFromEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()

	if cfg.Account.URL != "https://env.supabase.co" {
		t.Errorf("Account.URL = %q", cfg.Account.URL)
	}
	if cfg.Account.AnonKey != "anon-key" {
		t.Errorf("Account.AnonKey = %q", cfg.Account.AnonKey)
	}
}
