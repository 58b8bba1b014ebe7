package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

var errNoLesson = errors.New("no lesson")

type fakeLessons map[string]*domain.Lesson

func (f fakeLessons) Lesson(_ context.Context, id string) (*domain.Lesson, error) {
	if l, ok := f[id]; ok {
		return l, nil
	}
	return nil, errNoLesson
}

func newTestRouter(llm *fakeCompleter) http.Handler {
	h := NewHandler(NewAdapter(llm), fakeLessons{
		"l1": {ID: "l1", Title: "Closures", Content: "A closure captures variables."},
	}, func(err error) bool { return errors.Is(err, errNoLesson) })
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func TestHandlerSummaries(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{reply: `{"summary":"s","keyPoints":["k"],"estimatedReadingTime":1,"difficulty":"advanced"}`}
	router := newTestRouter(llm)

	req := httptest.NewRequest(http.MethodPost, "/api/summaries", strings.NewReader(`{"content":"text","title":"T","maxWords":50}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var env Envelope[domain.SummaryResult]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data.Difficulty != domain.DifficultyAdvanced {
		t.Fatalf("env = %+v", env)
	}
	if !strings.Contains(llm.reqs[0].Prompt, "max 50 words") {
		t.Fatalf("prompt = %q", llm.reqs[0].Prompt)
	}
}

func TestHandlerFallbackStillReturns200(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeCompleter{err: errors.New("down")})
	req := httptest.NewRequest(http.MethodPost, "/api/key-concepts", strings.NewReader(`{"content":"text"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":false`) || !strings.Contains(body, `"data":[]`) {
		t.Fatalf("body = %s", body)
	}
}

func TestHandlerLessonRoutes(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{reply: "notes"}
	router := newTestRouter(llm)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lessons/l1/notes", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"data":"notes"`) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(llm.reqs[0].Prompt, "A closure captures variables.") {
		t.Fatalf("lesson content not forwarded: %q", llm.reqs[0].Prompt)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lessons/missing/summary", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerRejectsBadJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestRouter(&fakeCompleter{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/study-notes", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
