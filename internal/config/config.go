package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/log"
)

type Config struct {
	// Storage
	DataPath string
	Backend  string

	// Export
	ExportPath string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		DataPath:   getEnv("LEDGER_DATA_PATH", "expenses.json"),
		Backend:    getEnv("LEDGER_BACKEND", "json"),
		ExportPath: getEnv("LEDGER_EXPORT_PATH", "expenses.csv"),
		LogLevel:   getEnv("LEDGER_LOG_LEVEL", "warn"),
		LogFormat:  getEnv("LEDGER_LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"json", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if strings.TrimSpace(c.DataPath) == "" {
		errors = append(errors, "data path cannot be empty")
	} else if info, err := os.Stat(c.DataPath); err == nil && info.IsDir() {
		errors = append(errors, fmt.Sprintf("data path '%s' is a directory", c.DataPath))
	}

	if strings.TrimSpace(c.ExportPath) == "" {
		errors = append(errors, "export path cannot be empty")
	} else if filepath.Clean(c.ExportPath) == filepath.Clean(c.DataPath) {
		errors = append(errors, fmt.Sprintf("export path '%s' would overwrite the data file", c.ExportPath))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
