// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Store   StoreConfig   `yaml:"store"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StoreConfig holds review-server connection settings.
type StoreConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ViewerConfig holds scene defaults applied before the first frame.
type ViewerConfig struct {
	Background     string `yaml:"background"`      // white, gray or black
	LightBoost     bool   `yaml:"light_boost"`     // start with the lighting rig on
	LightIntensity int    `yaml:"light_intensity"` // 10..100
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
		},
		Store: StoreConfig{
			BaseURL: "http://127.0.0.1:8420",
			Timeout: 15 * time.Second,
		},
		Viewer: ViewerConfig{
			Background:     "gray",
			LightBoost:     false,
			LightIntensity: 55,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
