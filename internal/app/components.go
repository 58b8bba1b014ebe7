// Package app assembles the chat, search and summarization components from
// configuration so the server and CLI share one wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/chatbot"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/completion"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/config"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/search"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/summarize"
)

// NewSearch builds the search service for the configured provider. The
// returned service is disabled when the provider is "none".
func NewSearch(cfg config.SearchConfig, rec search.Recorder) *search.Service {
	var provider search.Provider
	switch cfg.Provider {
	case config.SearchProviderSearXNG:
		provider = search.NewSearXNG(cfg.SearXNGURL, cfg.FetchUserAgent, cfg.FetchTimeout)
	case config.SearchProviderGoogle:
		provider = search.NewGoogle("", cfg.GoogleAPIKey, cfg.GoogleEngineID, cfg.FetchTimeout)
	}

	opts := []search.Option{search.WithRecorder(rec)}
	if provider != nil && cfg.FetchContent {
		opts = append(opts, search.WithFetcher(search.NewExtractor(search.ExtractorConfig{
			UserAgent: cfg.FetchUserAgent,
			Timeout:   cfg.FetchTimeout,
		})))
	}
	svc := search.NewService(provider, search.Config{
		MaxResults:    cfg.MaxResults,
		CacheSize:     cfg.CacheSize,
		QueryInterval: cfg.QueryInterval,
	}, opts...)
	if provider != nil {
		slog.Info("Web search enabled", "provider", provider.Name(), "fetch_content", cfg.FetchContent)
	}
	return svc
}

// Summarizer bundles the adapter with the resources it holds open.
type Summarizer struct {
	*summarize.Adapter
	Redis *summarize.RedisCache
}

// Close releases the redis connection when one is in use.
func (s *Summarizer) Close() error {
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// NewSummarizer builds the summarization adapter. A missing API key yields an
// adapter that always falls back; an unreachable redis falls back to the
// in-process cache.
func NewSummarizer(ctx context.Context, cfg *config.Config, rec summarize.Recorder) *Summarizer {
	var llm completion.Completer
	client, err := completion.NewClient(completion.Config{
		APIKey:  cfg.Completion.APIKey,
		BaseURL: cfg.Completion.BaseURL,
		Model:   cfg.Completion.Model,
		Timeout: cfg.Completion.Timeout,
	})
	switch {
	case err == nil:
		llm = client
		slog.Info("Completion endpoint configured", "model", client.Model())
	case errors.Is(err, completion.ErrNotConfigured):
		slog.Info("OPENAI_API_KEY not set, summaries will use fallbacks")
	default:
		slog.Warn("Completion client unavailable", "error", err)
	}

	out := &Summarizer{}
	var cache summarize.Cache = summarize.NewMemoryCache(cfg.Summary.CacheTTL)
	if cfg.Summary.RedisURL != "" {
		rc, err := summarize.NewRedisCache(ctx, cfg.Summary.RedisURL, cfg.Summary.CacheTTL)
		if err != nil {
			slog.Warn("Redis summary cache unavailable, using in-process cache", "error", err)
		} else {
			out.Redis = rc
			cache = rc
			slog.Info("Redis summary cache connected")
		}
	}
	out.Adapter = summarize.NewAdapter(llm, summarize.WithCache(cache), summarize.WithRecorder(rec))
	return out
}

// Chat is the assembled chat surface.
type Chat struct {
	Service *chatbot.Service
	Log     chatbot.ConversationLogger
}

// Close flushes the conversation log.
func (c *Chat) Close() error {
	return c.Log.Close()
}

// NewChat builds the chat service. searcher may be disabled.
func NewChat(cfg config.ConversationLogConfig, searcher *search.Service, rec chatbot.Recorder, logger *slog.Logger) (*Chat, error) {
	convLog, err := chatbot.NewConversationLogger(chatbot.ConversationLogConfig{
		Enabled:       cfg.Enabled,
		Dir:           cfg.Dir,
		GlobalEnabled: cfg.GlobalEnabled,
		GlobalPath:    cfg.GlobalPath,
		QueueSize:     cfg.QueueSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("conversation logger: %w", err)
	}

	store := chatbot.NewSessionStore()
	var genOpts []chatbot.GeneratorOption
	if searcher != nil && searcher.Enabled() {
		genOpts = append(genOpts, chatbot.WithSearcher(searcher))
	}
	svc := chatbot.NewService(store, chatbot.NewGenerator(store, genOpts...),
		chatbot.WithConversationLogger(convLog),
		chatbot.WithRecorder(rec))
	return &Chat{Service: svc, Log: convLog}, nil
}

// Closers closes each non-nil closer and joins the errors.
func Closers(cs ...io.Closer) error {
	var errs []error
	for _, c := range cs {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
