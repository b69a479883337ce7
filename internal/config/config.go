// Package config provides configuration management for the addon.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/internal/models"
)

const (
	defaultConfigFile   = "config.json"
	defaultDatabasePath = "./stremita.db"
)

// Config holds the process-level configuration. Per-user keys normally
// arrive in the request's configuration blob; values here act as fallbacks
// for single-user deployments.
type Config struct {
	TMDBAPIKey   string `json:"TMDB_API_KEY"`
	DebridAPIKey string `json:"DEBRID_API_KEY"`

	Port         string `json:"PORT"`
	DatabasePath string `json:"DATABASE_PATH"`
	CacheSize    int    `json:"CACHE_SIZE"`

	// Ranked candidates handed to the debrid resolver per request
	CandidateBudget int `json:"CANDIDATE_BUDGET"`
}

// Load reads configuration from environment variables and an optional JSON
// file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvOrDefault("PORT", constants.DefaultPort),
		DatabasePath:    getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		CacheSize:       constants.DefaultCacheSize,
		CandidateBudget: constants.DefaultCandidateBudget,
	}

	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.loadFromEnv()
	cfg.clamp()

	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		c.TMDBAPIKey = v
	}
	if v := os.Getenv("DEBRID_API_KEY"); v != "" {
		c.DebridAPIKey = v
	}
}

func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, c)
}

func (c *Config) clamp() {
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	if c.CandidateBudget <= 0 {
		c.CandidateBudget = constants.DefaultCandidateBudget
	}
	if c.CandidateBudget > constants.MaxCandidateBudget {
		c.CandidateBudget = constants.MaxCandidateBudget
	}
}

// DecodeUserConfig decodes the base64/JSON per-user configuration blob
// carried in the request path. Process-level keys fill in missing values.
func (c *Config) DecodeUserConfig(blob string) models.UserConfig {
	user := models.UserConfig{}

	if data, err := base64.StdEncoding.DecodeString(blob); err == nil {
		// A malformed blob behaves like an empty one.
		json.Unmarshal(data, &user)
	}

	if user.TMDBAPIKey == "" {
		user.TMDBAPIKey = c.TMDBAPIKey
	}
	if user.DebridAPIKey == "" {
		user.DebridAPIKey = c.DebridAPIKey
	}

	return user
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
