package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 800 {
		t.Errorf("expected height 800, got %d", cfg.Window.Height)
	}
	if cfg.Store.BaseURL != "http://127.0.0.1:8420" {
		t.Errorf("expected local store url, got %s", cfg.Store.BaseURL)
	}
	if cfg.Store.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Store.Timeout)
	}
	if cfg.Viewer.Background != "gray" {
		t.Errorf("expected gray background, got %s", cfg.Viewer.Background)
	}
	if cfg.Viewer.LightBoost {
		t.Error("expected light boost off by default")
	}
	if cfg.Viewer.LightIntensity != 55 {
		t.Errorf("expected intensity 55, got %d", cfg.Viewer.LightIntensity)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Window.Width = 1920
	cfg.Viewer.Background = "black"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if loaded.Window.Width != 1920 {
		t.Errorf("width = %d, want 1920 from file", loaded.Window.Width)
	}
	if loaded.Viewer.Background != "black" {
		t.Errorf("background = %s, want black from file", loaded.Viewer.Background)
	}
	// Untouched values keep their defaults.
	if loaded.Store.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want default", loaded.Store.Timeout)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
