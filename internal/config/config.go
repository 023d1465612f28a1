package config

import (
	"os"
)

// DefaultOutputPath matches the filename the tool has always produced.
const DefaultOutputPath = "Updated_mapping_sheet.xlsx"

// Config holds the runtime settings for one merge invocation.
type Config struct {
	OutputPath string
	LogLevel   string
}

// Load reads configuration from environment variables, applying defaults.
// A .env file, if any, is loaded by main before this runs.
func Load() *Config {
	return &Config{
		OutputPath: getEnv("MAPMERGE_OUTPUT", DefaultOutputPath),
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
