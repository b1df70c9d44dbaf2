package config

import (
	"os"
	"path/filepath"
	"testing"

	"pdf-translator/internal/types"
)

// TestNewConfigManager_CustomPath tests creating a manager with an explicit path
func TestNewConfigManager_CustomPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	m, err := NewConfigManager(configPath)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	if m.GetConfigPath() != configPath {
		t.Errorf("Expected config path %s, got %s", configPath, m.GetConfigPath())
	}
}

// TestLoad_MissingFile tests that a missing config file falls back to defaults
func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	m, err := NewConfigManager(filepath.Join(tmpDir, "nonexistent.json"))
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Expected no error for missing config file, got %v", err)
	}

	cfg := m.GetConfig()
	if cfg.DatabasePath != DefaultDatabasePath {
		t.Errorf("Expected default database path %s, got %s", DefaultDatabasePath, cfg.DatabasePath)
	}
	if cfg.CacheDir != DefaultCacheDir {
		t.Errorf("Expected default cache dir %s, got %s", DefaultCacheDir, cfg.CacheDir)
	}
	if cfg.DefaultSrcLang != "en" || cfg.DefaultTargetLang != "zh" {
		t.Errorf("Expected default language pair en->zh, got %s->%s", cfg.DefaultSrcLang, cfg.DefaultTargetLang)
	}
}

// TestLoad_InvalidJSON tests that corrupt config files fall back to defaults
func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	m, err := NewConfigManager(configPath)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Expected invalid JSON to be tolerated, got %v", err)
	}
	if m.GetConfig().DatabasePath != DefaultDatabasePath {
		t.Errorf("Expected defaults after invalid JSON, got %+v", m.GetConfig())
	}
}

// TestSaveAndLoad_RoundTrip tests that saved configuration loads back identically
func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.json")

	m, err := NewConfigManager(configPath)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	m.SetConfig(&types.Config{
		DatabasePath:      filepath.Join(tmpDir, "elements.db"),
		CacheDir:          filepath.Join(tmpDir, "cache"),
		DefaultSrcLang:    "en",
		DefaultTargetLang: "zh",
		BaiduAppID:        "app123",
		BaiduSecretKey:    "secret456",
	})
	if err := m.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	m2, err := NewConfigManager(configPath)
	if err != nil {
		t.Fatalf("Failed to create second config manager: %v", err)
	}
	if err := m2.Load(); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	cfg := m2.GetConfig()
	if cfg.BaiduAppID != "app123" {
		t.Errorf("Expected Baidu app id app123, got %s", cfg.BaiduAppID)
	}
	if cfg.BaiduSecretKey != "secret456" {
		t.Errorf("Expected Baidu secret key secret456, got %s", cfg.BaiduSecretKey)
	}
}

// TestGetBaiduAppID_EnvFallback tests the environment variable fallback for credentials
func TestGetBaiduAppID_EnvFallback(t *testing.T) {
	tmpDir := t.TempDir()
	m, err := NewConfigManager(filepath.Join(tmpDir, "config.json"))
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	t.Setenv(EnvBaiduAppID, "env-app-id")
	if got := m.GetBaiduAppID(); got != "env-app-id" {
		t.Errorf("Expected env fallback env-app-id, got %q", got)
	}

	// Config file value takes precedence over the environment
	m.GetConfig().BaiduAppID = "file-app-id"
	if got := m.GetBaiduAppID(); got != "file-app-id" {
		t.Errorf("Expected config value file-app-id, got %q", got)
	}
}

// TestGetOpenAIBaseURL_Default tests the base URL default chain
func TestGetOpenAIBaseURL_Default(t *testing.T) {
	tmpDir := t.TempDir()
	m, err := NewConfigManager(filepath.Join(tmpDir, "config.json"))
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	m.SetConfig(&types.Config{})
	t.Setenv(EnvOpenAIBaseURL, "")
	if got := m.GetOpenAIBaseURL(); got != DefaultBaseURL {
		t.Errorf("Expected default base URL %s, got %s", DefaultBaseURL, got)
	}
}
