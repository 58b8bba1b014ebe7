package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/api"
)

// AdminHandler exposes operator controls for the result cache.
type AdminHandler struct {
	svc *Service
}

// NewAdminHandler creates the cache admin handler.
func NewAdminHandler(svc *Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// RegisterRoutes registers GET and DELETE /search/cache.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/search/cache", h.CacheStatus)
	r.Delete("/search/cache", h.ClearCache)
}

// CacheStatus reports whether search is enabled and how many queries are cached.
func (h *AdminHandler) CacheStatus(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, map[string]any{
		"enabled":  h.svc.Enabled(),
		"size":     h.svc.CacheSize(),
		"capacity": h.svc.cache.capacity,
	})
}

// ClearCache drops every cached query.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, _ *http.Request) {
	h.svc.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}
