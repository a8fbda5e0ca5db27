package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Upload.Endpoint != "http://127.0.0.1:5000/upload" {
			t.Errorf("expected upload endpoint http://127.0.0.1:5000/upload, got %s", config.Upload.Endpoint)
		}

		if config.Upload.Timeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", config.Upload.Timeout)
		}

		if config.Upload.RateLimit != 1.0 {
			t.Errorf("expected rate limit 1.0, got %v", config.Upload.RateLimit)
		}

		if config.Preview.Width != 40 {
			t.Errorf("expected preview width 40, got %d", config.Preview.Width)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Upload.Endpoint != defaultConfig.Upload.Endpoint {
			t.Errorf("created config endpoint doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[upload]
endpoint = "http://localhost:9090/upload"
timeout = "5s"

[preview]
width = 64
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Upload.Endpoint != "http://localhost:9090/upload" {
			t.Errorf("expected endpoint http://localhost:9090/upload, got %s", config.Upload.Endpoint)
		}

		if config.Upload.Timeout != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", config.Upload.Timeout)
		}

		if config.Preview.Width != 64 {
			t.Errorf("expected preview width 64, got %d", config.Preview.Width)
		}

		if config.Upload.RateLimit != 1.0 {
			t.Errorf("expected missing rate_limit to keep default 1.0, got %v", config.Upload.RateLimit)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[upload]\nendpoint = \"\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
