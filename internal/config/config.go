package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, loaded from the environment
// (optionally a .env file). Rule toggles live in the separate YAML ruleset
// file, see ruleset.go.
type Config struct {
	LLM   LLMConfig
	Audit AuditConfig
}

// LLMConfig configures the optional AI advisor.
type LLMConfig struct {
	Provider string // "gemini" is the only supported provider for now
	Model    string
	APIKey   string
	Limit    int // max number of routes to request advice for
}

// AuditConfig configures the scoring engine and its surroundings.
type AuditConfig struct {
	Workers     int    // file-level parallelism for extraction
	HistoryPath string // sqlite file for audit history
	LogLevel    string
	LogPretty   bool
}

const (
	defaultModel      = "googleai/gemini-2.5-flash"
	defaultAdviceMax  = 5
	defaultHistoryDir = ".modernapi"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Load reads configuration from the environment. A missing .env file is
// fine; explicit environment variables always win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "gemini"),
			Model:    getEnvOrDefault("LLM_MODEL", defaultModel),
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Limit:    getEnvInt("AI_LIMIT", defaultAdviceMax),
		},
		Audit: AuditConfig{
			Workers:     getEnvInt("AUDIT_WORKERS", runtime.NumCPU()),
			HistoryPath: getEnvOrDefault("AUDIT_HISTORY_PATH", defaultHistoryDir+"/history.db"),
			LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
			LogPretty:   getEnvOrDefault("LOG_PRETTY", "true") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate bounds-checks the knobs that would make a run useless or
// runaway rather than merely slow.
func (c *Config) Validate() error {
	if c.Audit.Workers <= 0 {
		return fmt.Errorf("AUDIT_WORKERS must be positive")
	}
	if c.Audit.Workers > 256 {
		return fmt.Errorf("AUDIT_WORKERS too large (> 256)")
	}
	if c.LLM.Limit < 0 {
		return fmt.Errorf("AI_LIMIT must not be negative")
	}
	if c.LLM.Limit > 100 {
		return fmt.Errorf("AI_LIMIT too large (> 100)")
	}
	return nil
}
