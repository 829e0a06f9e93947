package config

import (
	"errors"
	"os"
)

// Config holds the application configuration.
type Config struct {
	Port          string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	APIKey        string
	Environment   string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		APIKey:        getEnv("API_KEY", ""),
		Environment:   getEnv("ENVIRONMENT", "development"),
	}
}

// Validate reports configuration the server cannot start without.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return errors.New("missing OPENAI_API_KEY")
	}
	if c.Model == "" {
		return errors.New("missing OPENAI_MODEL")
	}
	if c.Port == "" {
		return errors.New("missing PORT")
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
