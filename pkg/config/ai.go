package config

import "time"

// Provider selects the generation backend
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

type AIConfig struct {
	Provider     Provider
	Model        string
	GeminiAPIKey string
	OpenAIAPIKey string
	Temperature  float64
	Timeout      time.Duration
}

func loadAIConfig() AIConfig {
	provider := Provider(getEnv("AI_PROVIDER", "gemini"))

	model := getEnv("AI_MODEL", "")
	if model == "" {
		switch provider {
		case ProviderOpenAI:
			model = "gpt-4o-mini"
		default:
			model = "gemini-1.5-flash-001"
		}
	}

	return AIConfig{
		Provider:     provider,
		Model:        model,
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		Temperature:  getEnvFloat("AI_TEMPERATURE", 0.7),
		Timeout:      getEnvDuration("AI_TIMEOUT", 30*time.Second),
	}
}
