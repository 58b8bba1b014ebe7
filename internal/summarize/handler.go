package summarize

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/api"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

const maxBodyBytes = 1 << 20

// LessonSource loads lesson text for the by-id routes.
type LessonSource interface {
	Lesson(ctx context.Context, lessonID string) (*domain.Lesson, error)
}

// Request is the body of the summarization routes.
type Request struct {
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	MaxWords int    `json:"maxWords,omitempty"`
}

// Handler serves the summarization endpoints.
type Handler struct {
	adapter  *Adapter
	lessons  LessonSource
	notFound func(error) bool
}

// NewHandler creates a summarization handler. isNotFound classifies lesson
// lookup errors that should become 404 responses.
func NewHandler(adapter *Adapter, lessons LessonSource, isNotFound func(error) bool) *Handler {
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}
	return &Handler{adapter: adapter, lessons: lessons, notFound: isNotFound}
}

// RegisterRoutes registers summarization routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/summaries", h.Summarize)
	r.Post("/study-notes", h.StudyNotes)
	r.Post("/key-concepts", h.KeyConcepts)
	if h.lessons != nil {
		r.Post("/lessons/{lessonID}/summary", h.LessonSummary)
		r.Post("/lessons/{lessonID}/notes", h.LessonNotes)
		r.Post("/lessons/{lessonID}/concepts", h.LessonConcepts)
	}
}

// Summarize handles POST /api/summaries.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.adapter.SummarizeContent(r.Context(), req.Content, req.Title, req.MaxWords))
}

// StudyNotes handles POST /api/study-notes.
func (h *Handler) StudyNotes(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.adapter.GenerateStudyNotes(r.Context(), req.Content, req.Title))
}

// KeyConcepts handles POST /api/key-concepts.
func (h *Handler) KeyConcepts(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.adapter.ExtractKeyConcepts(r.Context(), req.Content))
}

// LessonSummary handles POST /api/lessons/{lessonID}/summary.
func (h *Handler) LessonSummary(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lesson(w, r)
	if !ok {
		return
	}
	var req Request
	if r.ContentLength > 0 {
		_ = api.DecodeJSON(w, r, maxBodyBytes, &req)
	}
	api.JSON(w, http.StatusOK, h.adapter.SummarizeContent(r.Context(), l.Content, l.Title, req.MaxWords))
}

// LessonNotes handles POST /api/lessons/{lessonID}/notes.
func (h *Handler) LessonNotes(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lesson(w, r)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.adapter.GenerateStudyNotes(r.Context(), l.Content, l.Title))
}

// LessonConcepts handles POST /api/lessons/{lessonID}/concepts.
func (h *Handler) LessonConcepts(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lesson(w, r)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.adapter.ExtractKeyConcepts(r.Context(), l.Content))
}

func (h *Handler) lesson(w http.ResponseWriter, r *http.Request) (*domain.Lesson, bool) {
	id := chi.URLParam(r, "lessonID")
	l, err := h.lessons.Lesson(r.Context(), id)
	if err != nil {
		if h.notFound(err) {
			api.Error(w, http.StatusNotFound, "lesson not found")
			return nil, false
		}
		slog.Error("Failed to load lesson for summarization", "lesson_id", id, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to load lesson")
		return nil, false
	}
	return l, true
}

func decode(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var req Request
	if err := api.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		api.DecodeError(w, err)
		return req, false
	}
	return req, true
}
