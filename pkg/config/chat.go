package config

import "time"

type ChatConfig struct {
	// MaxTurns bounds history to this many user/assistant pairs beyond the seed
	MaxTurns        int
	DefaultTimezone string
	LookupTimeout   time.Duration
}

func loadChatConfig() ChatConfig {
	return ChatConfig{
		MaxTurns:        getEnvInt("CHAT_MAX_TURNS", 10),
		DefaultTimezone: getEnv("TZ_DEFAULT", "UTC"),
		LookupTimeout:   getEnvDuration("LOOKUP_TIMEOUT", 10*time.Second),
	}
}
