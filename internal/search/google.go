package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// DefaultGoogleEndpoint is the Custom Search JSON API endpoint.
const DefaultGoogleEndpoint = "https://www.googleapis.com/customsearch/v1"

// googleMaxNum is the largest page size the Custom Search API accepts.
const googleMaxNum = 10

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Google queries the Google Custom Search JSON API.
type Google struct {
	endpoint   string
	apiKey     string
	engineID   string
	httpClient *http.Client
}

// NewGoogle creates a Custom Search client. An empty endpoint uses the public API.
func NewGoogle(endpoint, apiKey, engineID string, timeout time.Duration) *Google {
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	return &Google{
		endpoint:   endpoint,
		apiKey:     apiKey,
		engineID:   engineID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs and metrics.
func (g *Google) Name() string { return "google" }

// Search returns up to maxResults hits in the API's ranking order.
func (g *Google) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	if maxResults <= 0 || maxResults > googleMaxNum {
		maxResults = googleMaxNum
	}
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create google request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read google response: %w", err)
	}
	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("google search returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode google response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("google search error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search returned status %d", resp.StatusCode)
	}

	out := make([]domain.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		out = append(out, domain.SearchResult{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Snippet: StripMarkup(item.Snippet),
		})
	}
	return out, nil
}
