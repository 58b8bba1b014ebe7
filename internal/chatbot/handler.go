package chatbot

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/api"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/identity"
)

const defaultMaxRequestBodySize = 64 << 10

// LessonContextResolver turns a lesson ID into the learning context for a user.
type LessonContextResolver interface {
	LessonContext(ctx context.Context, userID, lessonID string) (domain.LearningContext, error)
}

// MarkdownRenderer renders reply Markdown as HTML.
type MarkdownRenderer interface {
	HTML(src string) (string, error)
}

// ChatRequest is the body of POST /api/chat/messages.
type ChatRequest struct {
	Message  string               `json:"message"`
	Context  *domain.ContextPatch `json:"context,omitempty"`
	LessonID string               `json:"lessonId,omitempty"`
}

// HistoryTurn is a conversation turn as returned by the history endpoint.
type HistoryTurn struct {
	domain.ConversationTurn
	HTML string `json:"html,omitempty"`
}

// Handler serves the chat HTTP surface.
type Handler struct {
	svc         *Service
	lessons     LessonContextResolver
	renderer    MarkdownRenderer
	rateLimiter *RateLimiter
	maxBodySize int64
}

// NewHandler creates a chat handler. lessons, renderer and limiter may be nil.
func NewHandler(svc *Service, lessons LessonContextResolver, renderer MarkdownRenderer, limiter *RateLimiter) *Handler {
	return &Handler{
		svc:         svc,
		lessons:     lessons,
		renderer:    renderer,
		rateLimiter: limiter,
		maxBodySize: defaultMaxRequestBodySize,
	}
}

// RegisterRoutes registers chat routes under /chat.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/messages", h.HandleSendMessage)
		r.Get("/history", h.HandleHistory)
		r.Delete("/history", h.HandleClearHistory)
		r.Get("/context", h.HandleGetContext)
		r.Patch("/context", h.HandleUpdateContext)
		r.Get("/study-tips", h.HandleStudyTips)
		r.Get("/explain", h.HandleExplain)
		r.Get("/motivation", h.HandleMotivation)
	})
}

// HandleSendMessage handles POST /api/chat/messages.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.rateLimiter != nil && !h.rateLimiter.Allow(userID) {
		api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req ChatRequest
	if err := api.DecodeJSON(w, r, h.maxBodySize, &req); err != nil {
		api.DecodeError(w, err)
		return
	}

	patch := h.contextPatch(r.Context(), userID, req)
	reply := h.svc.SendMessage(r.Context(), MessageRequest{
		OwnerID:   userID,
		SessionID: identity.SessionIDFromContext(r.Context()),
		Message:   req.Message,
		Context:   patch,
		Channel:   "chat_http",
		RequestID: chiMiddleware.GetReqID(r.Context()),
	})
	api.JSON(w, http.StatusOK, reply)
}

// contextPatch combines the lesson-derived context with any explicit fields;
// explicit fields win.
func (h *Handler) contextPatch(ctx context.Context, userID string, req ChatRequest) *domain.ContextPatch {
	if req.LessonID == "" || h.lessons == nil {
		return req.Context
	}
	lc, err := h.lessons.LessonContext(ctx, userID, req.LessonID)
	if err != nil {
		slog.Warn("Could not resolve lesson context", "lesson_id", req.LessonID, "error", err)
		return req.Context
	}
	patch := domain.PatchFrom(lc)
	if req.Context != nil {
		patch = patch.Overlay(*req.Context)
	}
	return &patch
}

// HandleHistory handles GET /api/chat/history[?format=html].
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	turns := h.svc.History(userID)
	withHTML := r.URL.Query().Get("format") == "html" && h.renderer != nil

	out := make([]HistoryTurn, 0, len(turns))
	for _, t := range turns {
		ht := HistoryTurn{ConversationTurn: t}
		if withHTML {
			html, err := h.renderer.HTML(t.Content)
			if err != nil {
				slog.Warn("Failed to render turn", "turn_id", t.ID, "error", err)
			} else {
				ht.HTML = html
			}
		}
		out = append(out, ht)
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"turns":   out,
		"context": h.svc.Context(userID),
	})
}

// HandleClearHistory handles DELETE /api/chat/history.
func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearHistory(identity.UserIDFromContext(r.Context()))
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleGetContext handles GET /api/chat/context.
func (h *Handler) HandleGetContext(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.svc.Context(identity.UserIDFromContext(r.Context())))
}

// HandleUpdateContext handles PATCH /api/chat/context with a partial context body.
func (h *Handler) HandleUpdateContext(w http.ResponseWriter, r *http.Request) {
	var patch domain.ContextPatch
	if err := api.DecodeJSON(w, r, h.maxBodySize, &patch); err != nil {
		api.DecodeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, h.svc.UpdateContext(identity.UserIDFromContext(r.Context()), patch))
}

// HandleStudyTips handles GET /api/chat/study-tips[?topic=].
func (h *Handler) HandleStudyTips(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"response": h.svc.StudyTips(r.URL.Query().Get("topic"))})
}

// HandleExplain handles GET /api/chat/explain?concept=.
func (h *Handler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"response": h.svc.ExplainConcept(r.URL.Query().Get("concept"))})
}

// HandleMotivation handles GET /api/chat/motivation.
func (h *Handler) HandleMotivation(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"response": h.svc.Motivation()})
}

// Close stops background work owned by the handler.
func (h *Handler) Close() {
	if h.rateLimiter != nil {
		h.rateLimiter.Stop()
	}
}

