package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Recorder receives search outcomes for metrics.
type Recorder interface {
	RecordSearchCache(hit bool)
	RecordSearch(provider, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordSearchCache(bool)      {}
func (noopRecorder) RecordSearch(string, string) {}

// PageFetcher turns a result URL into readable text.
type PageFetcher interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

// Config controls the search service.
type Config struct {
	MaxResults    int
	CacheSize     int
	QueryInterval time.Duration
	// EnrichConcurrency bounds parallel page fetches per query.
	EnrichConcurrency int
}

// Service answers queries through a provider, with caching, per-query spacing
// and optional page enrichment.
type Service struct {
	provider Provider
	fetcher  PageFetcher
	cache    *ResultCache
	throttle *QueryThrottle
	rec      Recorder
	cfg      Config
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher enriches results with extracted page text.
func WithFetcher(f PageFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithRecorder reports cache and provider outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.rec = r
		}
	}
}

// NewService creates a search service. A nil provider disables search.
func NewService(provider Provider, cfg Config, opts ...Option) *Service {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 3
	}
	s := &Service{
		provider: provider,
		cache:    NewResultCache(cfg.CacheSize),
		throttle: NewQueryThrottle(cfg.QueryInterval),
		rec:      noopRecorder{},
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns results for query, served from cache when possible.
func (s *Service) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	if cached, ok := s.cache.Get(query); ok {
		s.rec.RecordSearchCache(true)
		return cached, nil
	}
	s.rec.RecordSearchCache(false)

	if err := s.throttle.Wait(ctx, query); err != nil {
		return nil, err
	}

	results, err := s.provider.Search(ctx, query, s.cfg.MaxResults)
	if err != nil {
		s.rec.RecordSearch(s.provider.Name(), "error")
		return nil, err
	}
	if len(results) == 0 {
		s.rec.RecordSearch(s.provider.Name(), "empty")
		return results, nil
	}
	s.rec.RecordSearch(s.provider.Name(), "ok")

	if s.fetcher != nil {
		s.enrich(ctx, results)
	}
	s.cache.Put(query, results)
	return results, nil
}

// enrich fills ExtractedContent in place. Failed fetches keep the snippet.
func (s *Service) enrich(ctx context.Context, results []domain.SearchResult) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.EnrichConcurrency)
	for i := range results {
		if results[i].URL == "" {
			continue
		}
		g.Go(func() error {
			text, err := s.fetcher.Extract(gctx, results[i].URL)
			if err != nil {
				slog.Debug("Page enrichment skipped", "url", results[i].URL, "error", err)
				return nil
			}
			results[i].ExtractedContent = text
			return nil
		})
	}
	_ = g.Wait()
}

// ClearCache drops every cached query.
func (s *Service) ClearCache() { s.cache.Clear() }

// CacheSize returns the number of cached queries.
func (s *Service) CacheSize() int { return s.cache.Len() }

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool { return s.provider != nil }

// Close stops background work.
func (s *Service) Close() { s.throttle.Stop() }
