package config

import (
	"os"

	"domainwatch/internal/models"
)

// Load returns the server configuration from environment variables
func Load() models.Config {
	return models.Config{
		Port:         getEnv("PORT", "9080"),
		DBPath:       getEnv("DB_PATH", "domainwatch.db"),
		CheckOnStart: getEnv("CHECK_ON_START", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
