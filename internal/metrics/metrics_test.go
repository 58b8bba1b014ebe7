package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordChatReply("greeting", false)
	m.RecordChatReply("greeting", false)
	m.RecordChatFallback("study_tips")
	m.RecordSearchCache(true)
	m.RecordSearchCache(false)
	m.RecordSearch("searxng", "ok")
	m.RecordSummary("summarize", "malformed")
	m.RecordConnect()
	m.RecordConnect()
	m.RecordDisconnect()
	m.RecordFrame("message", "inbound")

	if got := testutil.ToFloat64(m.chatReplies.WithLabelValues("greeting", "false")); got != 2 {
		t.Errorf("chat replies = %v", got)
	}
	if got := testutil.ToFloat64(m.searchCache.WithLabelValues("hit")); got != 1 {
		t.Errorf("cache hits = %v", got)
	}
	if got := testutil.ToFloat64(m.summaries.WithLabelValues("summarize", "malformed")); got != 1 {
		t.Errorf("summaries = %v", got)
	}
	if got := testutil.ToFloat64(m.wsConnections); got != 1 {
		t.Errorf("connections = %v", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	t.Parallel()

	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/lessons/{lessonID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lessons/"+id, nil))
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/lessons/{lessonID}", "GET", "418")); got != 2 {
		t.Fatalf("requests = %v", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "edunova_http_request_duration_seconds") {
		t.Fatal("metrics output missing latency histogram")
	}
}

func TestRecordFrameBoundsLabels(t *testing.T) {
	t.Parallel()

	m := New()
	for i := 0; i < 500; i++ {
		m.RecordFrame(fmt.Sprintf("junk-%d", i), "inbound")
	}
	m.RecordFrame("message", "sideways")
	m.RecordFrame("message", "inbound")

	if n := testutil.CollectAndCount(m.wsMessages); n != 3 {
		t.Fatalf("series = %d, want 3", n)
	}
	if got := testutil.ToFloat64(m.wsMessages.WithLabelValues("unknown", "inbound")); got != 500 {
		t.Fatalf("unknown inbound = %v, want 500", got)
	}
}
