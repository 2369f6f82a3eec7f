// Package config loads environment-driven configuration for the wizard
// server and client.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds everything the API server needs to start.
type ServerConfig struct {
	Port          int
	DatabaseURL   string
	GeminiAPIKey  string
	AllowedOrigin string
}

// NewServerConfig reads server configuration from the environment.
// PORT defaults to 8000 and ALLOWED_ORIGIN to http://localhost:5173.
func NewServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:          8000,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "http://localhost:5173"
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// ClientConfig holds settings for the interactive wizard client.
type ClientConfig struct {
	BaseURL string
}

// NewClientConfig reads client configuration from the environment.
// WIZARD_API_URL defaults to http://localhost:8000/api/v1.
func NewClientConfig() *ClientConfig {
	cfg := &ClientConfig{
		BaseURL: os.Getenv("WIZARD_API_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000/api/v1"
	}
	return cfg
}
