// Package config provides configuration management for the PDF translator.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "pdf-translator-config.json"
	// EnvBaiduAppID is the environment variable name for the Baidu Fanyi app id
	EnvBaiduAppID = "BAIDU_APP_ID"
	// EnvBaiduSecretKey is the environment variable name for the Baidu Fanyi secret key
	EnvBaiduSecretKey = "BAIDU_SECRET_KEY"
	// EnvOpenAIAPIKey is the environment variable name for OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model to use
	DefaultModel = "gpt-4o"
	// DefaultDatabasePath is the default sqlite database path for extracted elements
	DefaultDatabasePath = "data/pdf_elements.db"
	// DefaultCacheDir is the default directory for translation cache files
	DefaultCacheDir = "translation_cache"
	// DefaultSrcLang is the default source language
	DefaultSrcLang = "en"
	// DefaultTargetLang is the default target language
	DefaultTargetLang = "zh"
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "pdf-translator", DefaultConfigFileName)
	}

	logger.Info("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		DatabasePath:      DefaultDatabasePath,
		CacheDir:          DefaultCacheDir,
		DefaultSrcLang:    DefaultSrcLang,
		DefaultTargetLang: DefaultTargetLang,
		OpenAIBaseURL:     DefaultBaseURL,
		OpenAIModel:       DefaultModel,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, it uses default values.
// Environment variables take precedence for credentials if config file values are empty.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			// Invalid JSON, use defaults
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded successfully",
				logger.String("path", m.configPath),
				logger.String("database", config.DatabasePath),
				logger.String("cacheDir", config.CacheDir))
			m.config = config
		}
	}

	// Apply defaults for empty fields
	if m.config.DatabasePath == "" {
		m.config.DatabasePath = DefaultDatabasePath
	}
	if m.config.CacheDir == "" {
		m.config.CacheDir = DefaultCacheDir
	}
	if m.config.DefaultSrcLang == "" {
		m.config.DefaultSrcLang = DefaultSrcLang
	}
	if m.config.DefaultTargetLang == "" {
		m.config.DefaultTargetLang = DefaultTargetLang
	}
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	// Credentials live in this file, keep it user-only
	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved successfully", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetBaiduAppID returns the Baidu Fanyi app id.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetBaiduAppID() string {
	if m.config != nil && m.config.BaiduAppID != "" {
		return m.config.BaiduAppID
	}
	return os.Getenv(EnvBaiduAppID)
}

// GetBaiduSecretKey returns the Baidu Fanyi secret key.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetBaiduSecretKey() string {
	if m.config != nil && m.config.BaiduSecretKey != "" {
		return m.config.BaiduSecretKey
	}
	return os.Getenv(EnvBaiduSecretKey)
}

// GetOpenAIAPIKey returns the OpenAI API key.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetOpenAIAPIKey() string {
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// GetOpenAIBaseURL returns the OpenAI API base URL.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetOpenAIBaseURL() string {
	if m.config != nil && m.config.OpenAIBaseURL != "" {
		return m.config.OpenAIBaseURL
	}
	if envURL := os.Getenv(EnvOpenAIBaseURL); envURL != "" {
		return envURL
	}
	return DefaultBaseURL
}

// GetOpenAIModel returns the OpenAI model to use.
func (m *ConfigManager) GetOpenAIModel() string {
	if m.config != nil && m.config.OpenAIModel != "" {
		return m.config.OpenAIModel
	}
	return DefaultModel
}

// GetDatabasePath returns the element store database path.
func (m *ConfigManager) GetDatabasePath() string {
	if m.config != nil && m.config.DatabasePath != "" {
		return m.config.DatabasePath
	}
	return DefaultDatabasePath
}

// GetCacheDir returns the translation cache directory.
func (m *ConfigManager) GetCacheDir() string {
	if m.config != nil && m.config.CacheDir != "" {
		return m.config.CacheDir
	}
	return DefaultCacheDir
}
