// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Search provider names.
const (
	SearchProviderNone    = "none"
	SearchProviderSearXNG = "searxng"
	SearchProviderGoogle  = "google"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	GRPCPort        string // empty disables the gRPC health server
	FrontendURL     string
	DBPath          string
	LogLevel        string
	CatalogSeedPath string
	// AdminToken guards the operator routes under /api/admin; empty disables them.
	AdminToken string

	Completion      CompletionConfig
	Search          SearchConfig
	Summary         SummaryConfig
	ChatRateLimit   int
	ChatRateWindow  time.Duration
	ConversationLog ConversationLogConfig
}

// CompletionConfig selects the hosted completion endpoint.
type CompletionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// SearchConfig controls the web-search collaborator.
type SearchConfig struct {
	Provider       string
	SearXNGURL     string
	GoogleAPIKey   string
	GoogleEngineID string
	MaxResults     int
	CacheSize      int
	QueryInterval  time.Duration
	FetchTimeout   time.Duration
	FetchUserAgent string
	FetchContent   bool
}

// SummaryConfig controls the summary cache.
type SummaryConfig struct {
	RedisURL string
	CacheTTL time.Duration
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("CONVERSATION_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GRPCPort:        getEnv("GRPC_PORT", "9090"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		DBPath:          getEnv("DB_PATH", "./data/edunova.db"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CatalogSeedPath: getEnv("CATALOG_SEED_PATH", ""),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		Completion: CompletionConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			Timeout: getEnvDuration("COMPLETION_TIMEOUT", 5*time.Second),
		},
		Search: SearchConfig{
			Provider:       strings.ToLower(getEnv("SEARCH_PROVIDER", SearchProviderNone)),
			SearXNGURL:     getEnv("SEARXNG_URL", ""),
			GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
			GoogleEngineID: getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
			MaxResults:     getEnvInt("SEARCH_MAX_RESULTS", 5),
			CacheSize:      getEnvInt("SEARCH_CACHE_SIZE", 50),
			QueryInterval:  getEnvDuration("SEARCH_QUERY_INTERVAL", time.Second),
			FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 5*time.Second),
			FetchUserAgent: getEnv("FETCH_USER_AGENT", "EduNova-Bot/1.0 (+https://github.com/dinobrefo/EduNova-MINIPROJECT)"),
			FetchContent:   getEnvBool("FETCH_CONTENT", true),
		},
		Summary: SummaryConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			CacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", time.Hour),
		},
		ChatRateLimit:  getEnvInt("CHAT_RATE_LIMIT", 30),
		ChatRateWindow: getEnvDuration("CHAT_RATE_WINDOW", time.Minute),
		ConversationLog: ConversationLogConfig{
			Enabled:       getEnvBool("CONVERSATION_LOG_ENABLED", true),
			Dir:           getEnv("CONVERSATION_LOG_DIR", "./data/logs/conversations"),
			GlobalEnabled: getEnvBool("CONVERSATION_LOG_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("CONVERSATION_LOG_GLOBAL_PATH", "./data/logs/conversations/all.ndjson"),
			QueueSize:     queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	switch c.Search.Provider {
	case SearchProviderNone:
	case SearchProviderSearXNG:
		if c.Search.SearXNGURL == "" {
			return fmt.Errorf("SEARXNG_URL is required when SEARCH_PROVIDER=searxng")
		}
	case SearchProviderGoogle:
		if c.Search.GoogleAPIKey == "" || c.Search.GoogleEngineID == "" {
			return fmt.Errorf("GOOGLE_API_KEY and GOOGLE_SEARCH_ENGINE_ID are required when SEARCH_PROVIDER=google")
		}
	default:
		return fmt.Errorf("SEARCH_PROVIDER must be one of none, searxng, google")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be > 0")
	}
	if c.Search.CacheSize <= 0 {
		return fmt.Errorf("SEARCH_CACHE_SIZE must be > 0")
	}
	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("COMPLETION_TIMEOUT must be > 0")
	}
	if c.ChatRateWindow <= 0 {
		return fmt.Errorf("CHAT_RATE_WINDOW must be > 0")
	}
	if c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.GlobalPath == "" {
		return fmt.Errorf("CONVERSATION_LOG_GLOBAL_PATH cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return fmt.Errorf("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the CORS origins for the configured frontend.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	origins := []string{}
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
