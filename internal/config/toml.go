// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	API     APIConfig     `toml:"api"`
	Analyze AnalyzeConfig `toml:"analyze"`
	Status  StatusConfig  `toml:"status"`
}

// APIConfig maps analyzer endpoint settings.
type APIConfig struct {
	BaseURL        *string `toml:"base-url"`
	APIKey         *string `toml:"api-key"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// AnalyzeConfig maps default analysis-target settings.
type AnalyzeConfig struct {
	Report *string `toml:"report"`
	Fight  *int    `toml:"fight"`
	Player *int    `toml:"player"`
	Lang   *string `toml:"lang"`
}

// StatusConfig maps the character baseline used by the analyzer.
type StatusConfig struct {
	MainHandSpeed *float64 `toml:"main-hand-speed"`
	OffHandSpeed  *float64 `toml:"off-hand-speed"`
	MainHandSkill *float64 `toml:"mh-skill"`
	OffHandSkill  *float64 `toml:"oh-skill"`
	Hit           *float64 `toml:"hit"`
	Crit          *float64 `toml:"crit"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
