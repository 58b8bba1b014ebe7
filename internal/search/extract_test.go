package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const articlePage = `<!doctype html><html><head><title>Recursion</title>
<script>var tracking = true;</script><style>p{color:red}</style></head>
<body><nav>Home | About | Contact</nav>
<article><h1>Recursion</h1>
<p>Recursion is a technique where a function solves a problem by calling itself on smaller inputs until it reaches a base case.</p>
<p>Every recursive function needs a base case that stops the calls, otherwise the program keeps recursing until the stack overflows.</p>
</article><footer>Copyright notice</footer></body></html>`

func newPageServer(t *testing.T, robots string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var pageHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		if robots == "" {
			http.NotFound(w, nil)
			return
		}
		_, _ = w.Write([]byte(robots))
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, _ *http.Request) {
		pageHits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	})
	mux.HandleFunc("/private/page", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	})
	mux.HandleFunc("/notes.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("word ", 500)))
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 0x50})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &pageHits
}

func testExtractor() *Extractor {
	return NewExtractor(ExtractorConfig{
		UserAgent:         "EduNova-Test",
		Timeout:           2 * time.Second,
		AllowPrivateHosts: true,
	})
}

func TestExtractorMainTextAndCache(t *testing.T) {
	t.Parallel()

	srv, hits := newPageServer(t, "")
	e := testExtractor()

	text, err := e.Extract(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "calling itself on smaller inputs") {
		t.Fatalf("missing article text: %q", text)
	}
	if strings.Contains(text, "tracking") {
		t.Fatalf("script content leaked: %q", text)
	}

	if _, err := e.Extract(context.Background(), srv.URL+"/article"); err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("page fetched %d times, want 1 (cached)", hits.Load())
	}
}

func TestExtractorRespectsRobots(t *testing.T) {
	t.Parallel()

	srv, _ := newPageServer(t, "User-agent: *\nDisallow: /private/\n")
	e := testExtractor()

	if _, err := e.Extract(context.Background(), srv.URL+"/private/page"); err == nil {
		t.Fatal("expected robots.txt to block /private/")
	}
	if _, err := e.Extract(context.Background(), srv.URL+"/article"); err != nil {
		t.Fatalf("allowed path failed: %v", err)
	}
}

func TestExtractorCapsLengthAndRejectsBinary(t *testing.T) {
	t.Parallel()

	srv, _ := newPageServer(t, "")
	e := testExtractor()

	text, err := e.Extract(context.Background(), srv.URL+"/notes.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if n := len([]rune(text)); n != DefaultMaxContentChars {
		t.Fatalf("len = %d, want %d", n, DefaultMaxContentChars)
	}

	if _, err := e.Extract(context.Background(), srv.URL+"/image.png"); err == nil {
		t.Fatal("expected unsupported content type error")
	}
}

func TestExtractorBlocksPrivateHostsByDefault(t *testing.T) {
	t.Parallel()

	e := NewExtractor(ExtractorConfig{})
	for _, raw := range []string{
		"http://localhost/x",
		"http://127.0.0.1:8080/x",
		"http://10.0.0.5/x",
		"http://172.20.1.1/x",
		"http://192.168.1.1/x",
		"ftp://example.com/file",
	} {
		if _, err := e.Extract(context.Background(), raw); err == nil {
			t.Errorf("Extract(%q) succeeded, want rejection", raw)
		}
	}
}

func TestPageTextSkipsBoilerplate(t *testing.T) {
	t.Parallel()

	text, err := PageText([]byte(articlePage))
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	for _, unwanted := range []string{"Home | About", "Copyright", "tracking", "color:red"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("PageText kept %q: %q", unwanted, text)
		}
	}
	if !strings.Contains(text, "base case") {
		t.Fatalf("PageText dropped body: %q", text)
	}
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"plain   text":                    "plain text",
		"<b>bold</b> and <i>italic</i>":   "bold and italic",
		"Tom &amp; Jerry":                 "Tom & Jerry",
		"<span class=\"x\">a</span>\n b ": "a b",
	}
	for in, want := range cases {
		if got := StripMarkup(in); got != want {
			t.Errorf("StripMarkup(%q) = %q, want %q", in, got, want)
		}
	}
}
