// ABOUTME: Centralized configuration for the triage engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the triage engine
type Config struct {
	// Catalog settings
	DataDir string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// External scoring services
	RerankerURL   string
	ClassifierURL string

	// Feature toggles
	RewriteQuestions bool

	// Server settings
	HTTPPort int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DataDir:          getEnv("TRIAGE_DATA_DIR", "data"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		ChatModel:        getEnv("TRIAGE_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:   getEnv("TRIAGE_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:          getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:       getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:       getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		RerankerURL:      os.Getenv("RERANKER_URL"),
		ClassifierURL:    os.Getenv("CLASSIFIER_URL"),
		RewriteQuestions: getEnvBool("TRIAGE_REWRITE_QUESTIONS", false),
		HTTPPort:         getEnvInt("TRIAGE_HTTP_PORT", 8080),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("TRIAGE_DATA_DIR must not be empty")
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("TRIAGE_HTTP_PORT must be 1-65535, got %d", c.HTTPPort)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
