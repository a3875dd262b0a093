package config

import "os"

// Config holds application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	LogLevel   string
	JWTSecret  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ListenAddr: envOrDefault("LISTEN_ADDR", ":8009"),
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		JWTSecret:  envOrDefault("JWT_SECRET", "dev-secret-change-me"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
