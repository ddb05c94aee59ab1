package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
	"github.com/joho/godotenv"
)

// appConfig is the JSON config file. The three credential fields can be
// overridden through the environment (ASSETS_SITE, ASSETS_USERNAME,
// ASSETS_API_TOKEN), loaded from a .env file when one exists, so tokens
// can stay out of the config file. Absent toggles default to true.
type appConfig struct {
	SiteName string `json:"siteName"`
	Username string `json:"username"`
	APIToken string `json:"apiToken"`

	Folder  string `json:"folder"`
	LogDir  string `json:"logDir"`
	Workers int    `json:"maxThreads"`

	// Restore jobs: which exported schema maps onto which destination key.
	ObjectSchemas []domain.MigrationJob `json:"objectSchemas"`
	// Backup selection; empty means every schema on the site.
	ObjectSchemaKeys []string `json:"objectSchemaKeys"`

	ProcessObjects           *bool `json:"processObjects"`
	ProcessComments          *bool `json:"processComments"`
	ProcessHistory           *bool `json:"processHistory"`
	SetAttributeRestrictions *bool `json:"setAttributeRestrictions"`
}

func loadConfig(path string) (appConfig, error) {
	var cfg appConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()
	if v := os.Getenv("ASSETS_SITE"); v != "" {
		cfg.SiteName = v
	}
	if v := os.Getenv("ASSETS_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("ASSETS_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}

	if cfg.Folder == "" {
		return cfg, fmt.Errorf("config %s: folder is required", path)
	}
	return cfg, nil
}

func toggle(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
