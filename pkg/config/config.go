package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	AI          AIConfig
	Chat        ChatConfig
	Environment Environment
}

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

func (c Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}
func (c Config) IsStaging() bool {
	return c.Environment == EnvironmentStaging
}
func (c Config) IsProd() bool {
	return c.Environment == EnvironmentProduction
}

func loadEnvironment() Environment {
	env := getEnv("ENVIRONMENT", "development")
	switch strings.ToLower(env) {
	case "production":
		return EnvironmentProduction
	case "staging":
		return EnvironmentStaging
	default:
		return EnvironmentDevelopment
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Server:      loadServerConfig(),
		Store:       loadStoreConfig(),
		AI:          loadAIConfig(),
		Chat:        loadChatConfig(),
		Environment: loadEnvironment(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER: %s (use 'gemini' or 'openai')", c.AI.Provider)
	}

	switch c.Store.Mode {
	case StoreModeMemory, StoreModeRedis, StoreModePostgres:
	default:
		return fmt.Errorf("unknown STORE_MODE: %s (use 'memory', 'redis' or 'postgres')", c.Store.Mode)
	}

	if c.Chat.MaxTurns < 1 {
		return fmt.Errorf("CHAT_MAX_TURNS must be at least 1")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
