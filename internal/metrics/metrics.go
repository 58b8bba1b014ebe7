// Package metrics exposes Prometheus metrics for chat, search, summarization,
// realtime connections and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edunova"

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	chatReplies    *prometheus.CounterVec
	chatFallbacks  *prometheus.CounterVec
	searchCache    *prometheus.CounterVec
	searchRequests *prometheus.CounterVec
	summaries      *prometheus.CounterVec
	wsConnections  prometheus.Gauge
	wsMessages     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// New creates the collectors. Process and Go runtime collectors are included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		chatReplies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Chat replies by classified intent and whether generation failed.",
		}, []string{"intent", "failed"}),
		chatFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_fallbacks_total",
			Help:      "Canned fallbacks served by chat surface.",
		}, []string{"surface"}),
		searchCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_lookups_total",
			Help:      "Search cache lookups by result.",
		}, []string{"result"}),
		searchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Outbound search requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		summaries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarizer_requests_total",
			Help:      "Summarizer calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		wsConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections_active",
			Help:      "Open realtime chat connections.",
		}),
		wsMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_total",
			Help:      "Realtime chat frames by type and direction.",
		}, []string{"type", "direction"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"route", "method"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordChatReply implements chatbot.Recorder.
func (m *Metrics) RecordChatReply(intent string, failed bool) {
	m.chatReplies.WithLabelValues(intent, strconv.FormatBool(failed)).Inc()
}

// RecordChatFallback implements chatbot.Recorder.
func (m *Metrics) RecordChatFallback(surface string) {
	m.chatFallbacks.WithLabelValues(surface).Inc()
}

// RecordSearchCache implements search.Recorder.
func (m *Metrics) RecordSearchCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.searchCache.WithLabelValues(result).Inc()
}

// RecordSearch implements search.Recorder.
func (m *Metrics) RecordSearch(provider, outcome string) {
	m.searchRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordSummary implements summarize.Recorder.
func (m *Metrics) RecordSummary(operation, outcome string) {
	m.summaries.WithLabelValues(operation, outcome).Inc()
}

// RecordConnect and RecordDisconnect track realtime connections.
func (m *Metrics) RecordConnect()    { m.wsConnections.Inc() }
func (m *Metrics) RecordDisconnect() { m.wsConnections.Dec() }

// frameTypes are the realtime frame labels; anything else is counted as "unknown".
var frameTypes = map[string]bool{
	"message": true, "ping": true, "clear": true,
	"reply": true, "pong": true, "cleared": true, "error": true,
}

// RecordFrame counts a realtime frame; direction is "inbound" or "outbound".
func (m *Metrics) RecordFrame(frameType, direction string) {
	if !frameTypes[frameType] {
		frameType = "unknown"
	}
	if direction != "inbound" && direction != "outbound" {
		direction = "unknown"
	}
	m.wsMessages.WithLabelValues(frameType, direction).Inc()
}

// Middleware records request counts and latency keyed by the chi route pattern,
// so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
