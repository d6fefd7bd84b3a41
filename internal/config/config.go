// Package config loads and persists the application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration.
type Config struct {
	// Account backend (Supabase project)
	Account AccountConfig `json:"account"`

	// Recipe catalog
	Catalog CatalogConfig `json:"catalog"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// AccountConfig holds the account backend settings.
type AccountConfig struct {
	URL     string `json:"url"`
	AnonKey string `json:"anon_key,omitempty"`
}

// CatalogConfig holds the recipe catalog settings.
type CatalogConfig struct {
	BaseURL string `json:"base_url,omitempty"`
	// VocabularyTTLHours controls how long cached category/area/ingredient
	// lists are served before refetching. 0 means the default (24h).
	VocabularyTTLHours int `json:"vocabulary_ttl_hours,omitempty"`
}

// TTL returns the vocabulary cache lifetime.
func (c CatalogConfig) TTL() time.Duration {
	if c.VocabularyTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.VocabularyTTLHours) * time.Hour
}

// UIConfig holds UI preferences. Theme is a local cache of the remote
// user_settings row so the UI starts styled before the session resolves.
type UIConfig struct {
	Theme string `json:"theme"` // "light", "dark" or "system"
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{Theme: "system"},
	}
}

// Dir returns the data directory (~/.recetario), creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".recetario")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the path to the config file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "config.json")
}

// Load reads config from disk, or returns defaults.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(dir), data, 0600) // Restrictive permissions for the anon key
}

// AutoPopulateFromEnv fills in backend settings from environment variables
// when the file doesn't provide them.
func (c *Config) AutoPopulateFromEnv() {
	if c.Account.URL == "" {
		c.Account.URL = os.Getenv("SUPABASE_URL")
	}
	if c.Account.AnonKey == "" {
		c.Account.AnonKey = os.Getenv("SUPABASE_ANON_KEY")
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = os.Getenv("MEALDB_BASE_URL")
	}
}
