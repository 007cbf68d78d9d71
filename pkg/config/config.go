package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type TransportConfig struct {
	Type string `mapstructure:"type"` // "stdio" or "sse"
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ChatBackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type BookingAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "sqlite"
	Path    string `mapstructure:"path"`
}

type ServerConfig struct {
	Transport   TransportConfig   `mapstructure:"transport"`
	LogLevel    string            `mapstructure:"log_level"`
	LogFormat   string            `mapstructure:"log_format"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	BusinessID  string            `mapstructure:"business_id"`
	ChatBackend ChatBackendConfig `mapstructure:"chat_backend"`
	BookingAPI  BookingAPIConfig  `mapstructure:"booking_api"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Transport: TransportConfig{
			Type: "stdio",
			Host: "localhost",
			Port: 8080,
		},
		LogLevel:  "info",
		LogFormat: "json",
		Timeout:   30 * time.Second,
		ChatBackend: ChatBackendConfig{
			BaseURL: "http://localhost:3000",
		},
		BookingAPI: BookingAPIConfig{
			BaseURL: "http://localhost:4000/api/v1",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    defaultStoragePath(),
		},
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pending_proposals.json"
	}
	return filepath.Join(home, ".booking-assistant", "pending_proposals.json")
}

func LoadConfig() (*ServerConfig, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/booking-assistant/")
	viper.AddConfigPath("$HOME/.booking-assistant/")

	viper.SetEnvPrefix("BOOKING_ASSISTANT")
	viper.AutomaticEnv()

	// Server configuration defaults
	viper.SetDefault("transport.type", config.Transport.Type)
	viper.SetDefault("transport.host", config.Transport.Host)
	viper.SetDefault("transport.port", config.Transport.Port)
	viper.SetDefault("log_level", config.LogLevel)
	viper.SetDefault("log_format", config.LogFormat)
	viper.SetDefault("timeout", config.Timeout)
	viper.SetDefault("business_id", config.BusinessID)

	// External backend defaults
	viper.SetDefault("chat_backend.base_url", config.ChatBackend.BaseURL)
	viper.SetDefault("booking_api.base_url", config.BookingAPI.BaseURL)
	viper.SetDefault("booking_api.api_key", config.BookingAPI.APIKey)

	// Durable storage defaults
	viper.SetDefault("storage.backend", config.Storage.Backend)
	viper.SetDefault("storage.path", config.Storage.Path)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	// Decode the configuration
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *ServerConfig) error {
	if config.Transport.Type != "stdio" && config.Transport.Type != "sse" {
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	if config.Transport.Port <= 0 || config.Transport.Port > 65535 {
		return fmt.Errorf("the port must be between 1 and 65535")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("the timeout must be positive")
	}

	if config.ChatBackend.BaseURL == "" {
		return fmt.Errorf("the chat backend base URL cannot be empty")
	}

	if config.BookingAPI.BaseURL == "" {
		return fmt.Errorf("the booking API base URL cannot be empty")
	}

	if config.Storage.Backend != "file" && config.Storage.Backend != "sqlite" {
		return fmt.Errorf("invalid storage backend: %s", config.Storage.Backend)
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("the storage path cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[config.LogFormat] {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	return nil
}
