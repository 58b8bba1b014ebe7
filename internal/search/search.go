// Package search looks up general questions on the web: provider clients for
// SearXNG and Google Custom Search, a bounded result cache, per-query rate
// spacing, and optional page-text enrichment of the top hits.
package search

import (
	"context"
	"errors"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// ErrNoProvider is returned when search is requested but disabled.
var ErrNoProvider = errors.New("search provider not configured")

// Provider is a web-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)
}
