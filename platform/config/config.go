// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for admin middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// AIConfig provides settings for the Gemini-backed LLM clients.
type AIConfig interface {
	GetGeminiAPIKey() string
	GetGeminiChatModel() string
	GetGeminiParseModel() string
	GetLLMRequestTimeout() time.Duration
	IsAIEnabled() bool
}

// SupportBoardConfig provides settings for the chat platform glue.
type SupportBoardConfig interface {
	GetSupportBoardURL() string
	GetSupportBoardToken() string
	GetSupportBoardWebhookSecret() string
	GetSupportBoardBotUserID() string
}

// FitmentConfig provides tuning knobs for the fitment resolver.
type FitmentConfig interface {
	GetFuzzyMatchThreshold() int
	GetMakeCacheTTL() time.Duration
	GetFitmentSearchLimit() int
}

// FinancingConfig provides settings for the financing calculator.
type FinancingConfig interface {
	GetFinancingProvider() string
}

// RedisConfig provides settings for the conversation pause store.
type RedisConfig interface {
	GetRedisURL() string
	GetConversationPauseTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	DatabaseURL               string
	JWTAccessSecret           string
	CORSAllowAll              bool
	CORSOrigins               []string
	CORSAllowCreds            bool
	GeminiAPIKey              string
	GeminiChatModel           string
	GeminiParseModel          string
	LLMRequestTimeout         time.Duration
	SupportBoardURL           string
	SupportBoardToken         string
	SupportBoardWebhookSecret string
	SupportBoardBotUserID     string
	FuzzyMatchThreshold       int
	MakeCacheTTL              time.Duration
	FitmentSearchLimit        int
	FinancingProvider         string
	RedisURL                  string
	ConversationPauseTTL      time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// AIConfig implementation
func (c *Config) GetGeminiAPIKey() string             { return c.GeminiAPIKey }
func (c *Config) GetGeminiChatModel() string          { return c.GeminiChatModel }
func (c *Config) GetGeminiParseModel() string         { return c.GeminiParseModel }
func (c *Config) GetLLMRequestTimeout() time.Duration { return c.LLMRequestTimeout }
func (c *Config) IsAIEnabled() bool                   { return c.GeminiAPIKey != "" }

// SupportBoardConfig implementation
func (c *Config) GetSupportBoardURL() string           { return c.SupportBoardURL }
func (c *Config) GetSupportBoardToken() string         { return c.SupportBoardToken }
func (c *Config) GetSupportBoardWebhookSecret() string { return c.SupportBoardWebhookSecret }
func (c *Config) GetSupportBoardBotUserID() string     { return c.SupportBoardBotUserID }

// FitmentConfig implementation
func (c *Config) GetFuzzyMatchThreshold() int      { return c.FuzzyMatchThreshold }
func (c *Config) GetMakeCacheTTL() time.Duration   { return c.MakeCacheTTL }
func (c *Config) GetFitmentSearchLimit() int       { return c.FitmentSearchLimit }

// FinancingConfig implementation
func (c *Config) GetFinancingProvider() string { return c.FinancingProvider }

// RedisConfig implementation
func (c *Config) GetRedisURL() string                   { return c.RedisURL }
func (c *Config) GetConversationPauseTTL() time.Duration { return c.ConversationPauseTTL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		JWTAccessSecret:           getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:              corsAllowAll,
		CORSOrigins:               corsOrigins,
		CORSAllowCreds:            strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		GeminiAPIKey:              getEnv("GEMINI_API_KEY", ""),
		GeminiChatModel:           getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),
		GeminiParseModel:          getEnv("GEMINI_PARSE_MODEL", "gemini-2.0-flash-lite"),
		LLMRequestTimeout:         mustDuration(getEnv("LLM_REQUEST_TIMEOUT", "45s")),
		SupportBoardURL:           getEnv("SUPPORT_BOARD_URL", ""),
		SupportBoardToken:         getEnv("SUPPORT_BOARD_TOKEN", ""),
		SupportBoardWebhookSecret: getEnv("SUPPORT_BOARD_WEBHOOK_SECRET", ""),
		SupportBoardBotUserID:     getEnv("SUPPORT_BOARD_BOT_USER_ID", ""),
		FuzzyMatchThreshold:       mustInt(getEnv("FUZZY_MATCH_THRESHOLD", "85")),
		MakeCacheTTL:              mustDuration(getEnv("MAKE_CACHE_TTL", "1h")),
		FitmentSearchLimit:        mustInt(getEnv("FITMENT_SEARCH_LIMIT", "10")),
		FinancingProvider:         getEnv("FINANCING_PROVIDER", "Cashea"),
		RedisURL:                  getEnv("REDIS_URL", ""),
		ConversationPauseTTL:      mustDuration(getEnv("CONVERSATION_PAUSE_TTL", "1h")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.FuzzyMatchThreshold < 0 || cfg.FuzzyMatchThreshold > 100 {
		return nil, fmt.Errorf("FUZZY_MATCH_THRESHOLD must be between 0 and 100")
	}
	if cfg.FitmentSearchLimit < 1 {
		return nil, fmt.Errorf("FITMENT_SEARCH_LIMIT must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
