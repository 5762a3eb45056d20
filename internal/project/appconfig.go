// Package project persists user-level defaults for the nesting CLI: sheet
// dimensions, spacing and engine policies that apply when the request or
// command line leaves them out.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/nestpack/internal/model"
)

// AppConfig is the persisted defaults file, all lengths in inches.
type AppConfig struct {
	SheetWidth    float64 `json:"sheetWidth,omitempty"`
	SheetHeight   float64 `json:"sheetHeight,omitempty"`
	Spacing       float64 `json:"spacing,omitempty"`
	AllowRotation *bool   `json:"allowRotation,omitempty"`
	Mode          string  `json:"mode,omitempty"`
	Order         string  `json:"order,omitempty"`
	Alignment     string  `json:"alignment,omitempty"`
	Accuracy      float64 `json:"accuracy,omitempty"`
}

// DefaultAppConfig returns an empty config: every field defers to the
// engine defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{}
}

// DefaultConfigDir returns the default directory for the config file,
// ~/.nestpack on all platforms.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nestpack")
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON, creating
// missing parent directories.
func SaveAppConfig(path string, config AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. A missing file
// yields DefaultAppConfig with no error.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// Apply overlays the persisted defaults onto an engine configuration.
// Only fields the user actually set are applied.
func (a AppConfig) Apply(cfg model.NestConfig) model.NestConfig {
	if a.SheetWidth > 0 {
		cfg.SheetWidth = model.ToUnits(a.SheetWidth)
	}
	if a.SheetHeight > 0 {
		cfg.SheetHeight = model.ToUnits(a.SheetHeight)
	}
	if a.Spacing > 0 {
		cfg.Spacing = model.ToUnits(a.Spacing)
	}
	if a.AllowRotation != nil && !*a.AllowRotation {
		cfg.Rotations = []int{0}
	}
	if a.Mode != "" {
		cfg.Mode = model.PlacementMode(a.Mode)
	}
	if a.Order != "" {
		cfg.Order = model.OrderPolicy(a.Order)
	}
	if a.Alignment != "" {
		cfg.Alignment = model.Alignment(a.Alignment)
	}
	if a.Accuracy > 0 {
		cfg.Accuracy = a.Accuracy
	}
	return cfg
}
