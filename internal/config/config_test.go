package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "./data/edunova.db")
	t.Setenv("SEARCH_PROVIDER", "none")
	t.Setenv("LOG_LEVEL", "INFO")
	t.Setenv("CHAT_RATE_WINDOW", "not-a-duration")
	t.Setenv("SEARCH_QUERY_INTERVAL", "1500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.ChatRateWindow != time.Minute {
		t.Errorf("ChatRateWindow = %v, want fallback", cfg.ChatRateWindow)
	}
	if cfg.Search.QueryInterval != 1500*time.Millisecond {
		t.Errorf("QueryInterval = %v", cfg.Search.QueryInterval)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Port:           "8080",
			DBPath:         "db",
			LogLevel:       "info",
			Completion:     CompletionConfig{Timeout: time.Second},
			Search:         SearchConfig{Provider: SearchProviderNone, MaxResults: 5, CacheSize: 50},
			ChatRateWindow: time.Minute,
			ConversationLog: ConversationLogConfig{
				Dir: "logs", GlobalPath: "logs/all.ndjson", QueueSize: 10,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty port", func(c *Config) { c.Port = "" }, "PORT"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL"},
		{"unknown provider", func(c *Config) { c.Search.Provider = "bing" }, "SEARCH_PROVIDER"},
		{"searxng without url", func(c *Config) { c.Search.Provider = SearchProviderSearXNG }, "SEARXNG_URL"},
		{"google without key", func(c *Config) { c.Search.Provider = SearchProviderGoogle }, "GOOGLE_API_KEY"},
		{"zero cache", func(c *Config) { c.Search.CacheSize = 0 }, "SEARCH_CACHE_SIZE"},
		{"zero queue", func(c *Config) { c.ConversationLog.QueueSize = 0 }, "QUEUE_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestAllowedOriginsAndDevelopment(t *testing.T) {
	t.Parallel()

	c := &Config{}
	if !c.IsDevelopment() || c.AllowedOrigins()[0] != "*" {
		t.Fatal("empty frontend should be development with wildcard origin")
	}

	c.FrontendURL = "https://learn.example/, https://admin.example"
	if c.IsDevelopment() {
		t.Fatal("expected production mode")
	}
	got := c.AllowedOrigins()
	if len(got) != 2 || got[0] != "https://learn.example" || got[1] != "https://admin.example" {
		t.Fatalf("AllowedOrigins = %v", got)
	}
}
