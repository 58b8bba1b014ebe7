package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSPAHandlerFallsBackToIndex(t *testing.T) {
	t.Parallel()

	h := SPAHandler()
	for _, path := range []string{"/", "/courses/intro-to-go"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "EduNova Study Assistant") {
			t.Fatalf("%s: widget not served", path)
		}
	}
}

func TestSPAHandlerDoesNotMaskMissingEndpoints(t *testing.T) {
	t.Parallel()

	h := SPAHandler()
	for _, path := range []string{"/api/unknown", "/ws/other"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lessons/42", nil))
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("fallback Cache-Control = %q", got)
	}
}
