package routes

import (
	"net/http"
	"time"

	"ctonews/cache"
	"ctonews/routes/rutil"
)

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	rutil.MustWriteJson(w, http.StatusOK, map[string]any{
		"message": "51CTO News API",
		"source":  "51CTO",
		"health":  "/health",
		"news":    "/api/news/",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Cache.Status()
	health := "healthy"
	if status.Status == cache.StatusError {
		health = "degraded"
	}
	rutil.MustWriteJson(w, http.StatusOK, map[string]any{
		"status":       health,
		"timestamp":    time.Now().Format(time.RFC3339),
		"cache_status": status.Status,
		"cache_count":  status.Count,
	})
}
