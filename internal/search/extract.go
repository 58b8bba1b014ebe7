package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
	cache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"
)

const (
	// DefaultMaxContentChars caps the text kept from a fetched page.
	DefaultMaxContentChars = 1000
	maxPageBytes           = 2 << 20
	maxRobotsBytes         = 512 << 10
)

// ExtractorConfig controls page fetching.
type ExtractorConfig struct {
	UserAgent string
	Timeout   time.Duration
	MaxChars  int
	// AllowPrivateHosts permits loopback and private addresses.
	AllowPrivateHosts bool
}

// Extractor fetches result pages and reduces them to readable text, honoring robots.txt.
type Extractor struct {
	cfg          ExtractorConfig
	client       *http.Client
	robotsCache  *cache.Cache
	contentCache *cache.Cache
}

// NewExtractor creates a page extractor.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxContentChars
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "EduNova-Bot/1.0"
	}
	return &Extractor{
		cfg:          cfg,
		client:       &http.Client{Timeout: cfg.Timeout},
		robotsCache:  cache.New(24*time.Hour, time.Hour),
		contentCache: cache.New(time.Hour, 10*time.Minute),
	}
}

// Extract returns up to MaxChars of main text from the page at rawURL.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	if cached, ok := e.contentCache.Get(rawURL); ok {
		return cached.(string), nil
	}

	u, err := e.validateURL(rawURL)
	if err != nil {
		return "", err
	}
	if !e.allowedByRobots(ctx, u) {
		return "", fmt.Errorf("blocked by robots.txt: %s", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create page request: %w", err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: HTTP %d", resp.StatusCode)
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !isSupportedContentType(contentType) {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	var text string
	if strings.Contains(contentType, "text/plain") {
		text = collapseWhitespace(string(body))
	} else {
		text = e.mainText(body, u)
	}
	if text == "" {
		return "", fmt.Errorf("no content extracted from %s", rawURL)
	}
	text = truncate(text, e.cfg.MaxChars)
	e.contentCache.Set(rawURL, text, cache.DefaultExpiration)
	return text, nil
}

// mainText prefers trafilatura's main-content extraction and falls back to
// stripping boilerplate elements from the DOM.
func (e *Extractor) mainText(body []byte, u *url.URL) string {
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{OriginalURL: u})
	if err == nil && result != nil {
		if text := collapseWhitespace(result.ContentText); text != "" {
			return text
		}
	}
	if err != nil {
		slog.Debug("Trafilatura extraction failed, using DOM fallback", "url", u.String(), "error", err)
	}
	text, err := PageText(body)
	if err != nil {
		slog.Debug("DOM text extraction failed", "url", u.String(), "error", err)
		return ""
	}
	return text
}

func (e *Extractor) validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
	if e.cfg.AllowPrivateHosts {
		return u, nil
	}
	host := strings.ToLower(u.Hostname())
	if host == "localhost" || host == "::1" || strings.HasPrefix(host, "127.") {
		return nil, fmt.Errorf("localhost URLs are not allowed")
	}
	for _, prefix := range []string{"10.", "192.168.", "169.254.", "fd"} {
		if strings.HasPrefix(host, prefix) {
			return nil, fmt.Errorf("private addresses are not allowed")
		}
	}
	for i := 16; i <= 31; i++ {
		if strings.HasPrefix(host, fmt.Sprintf("172.%d.", i)) {
			return nil, fmt.Errorf("private addresses are not allowed")
		}
	}
	return u, nil
}

// allowedByRobots reports whether robots.txt permits fetching u. Missing or
// unreadable robots files allow the fetch.
func (e *Extractor) allowedByRobots(ctx context.Context, u *url.URL) bool {
	origin := u.Scheme + "://" + u.Host
	if cached, ok := e.robotsCache.Get(origin); ok {
		return cached.(*robotstxt.RobotsData).TestAgent(pathOf(u), e.cfg.UserAgent)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	resp, err := e.client.Do(req)
	if err != nil {
		return true
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return true
	}
	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return true
	}
	e.robotsCache.Set(origin, robots, cache.DefaultExpiration)
	return robots.TestAgent(pathOf(u), e.cfg.UserAgent)
}

func pathOf(u *url.URL) string {
	if p := u.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

func isSupportedContentType(ct string) bool {
	if ct == "" {
		return true
	}
	for _, ok := range []string{"text/html", "text/plain", "application/xhtml+xml"} {
		if strings.Contains(ct, ok) {
			return true
		}
	}
	return false
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "nav": true, "header": true,
	"footer": true, "aside": true, "noscript": true, "template": true,
}

// PageText returns the visible text of an HTML document without script,
// style, navigation, header or footer elements.
func PageText(doc []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return collapseWhitespace(b.String()), nil
}

// StripMarkup removes HTML tags and entities from a search snippet.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseWhitespace(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseWhitespace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
