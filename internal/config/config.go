package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/rangepick/internal/models"
)

const configFile = ".rangepick/config.json"

// Path returns the config file location under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	data, err := os.ReadFile(Path(baseDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	return &cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *models.Config) error {
	configPath := Path(baseDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate reports the first invalid field of cfg.
func Validate(cfg *models.Config) error {
	if cfg.Pages < 0 || cfg.Pages > 3 {
		return fmt.Errorf("pages must be between 1 and 3, got %d", cfg.Pages)
	}
	if cfg.WeekStart != "" {
		if _, ok := models.ParseWeekday(cfg.WeekStart); !ok {
			return fmt.Errorf("unknown week_start %q", cfg.WeekStart)
		}
	}
	if cfg.ColorScheme != "" && !models.IsValidColorScheme(cfg.ColorScheme) {
		return fmt.Errorf("unknown color_scheme %q", cfg.ColorScheme)
	}
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	return nil
}

// SetLastPreset records the most recently applied preset name
func SetLastPreset(baseDir string, name string) error {
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}

	cfg.LastPreset = name
	return Save(baseDir, cfg)
}
