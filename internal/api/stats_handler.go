package api

import (
	"net/http"
	"strconv"
)

// GET /stats/overview
func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context())
	if h.handleError(w, err, "stats") {
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// GET /stats/daily
func (h *Handler) getDailyStats(w http.ResponseWriter, r *http.Request) {
	daily, err := h.stats.Daily(r.Context())
	if h.handleError(w, err, "stats") {
		return
	}
	respondJSON(w, http.StatusOK, daily)
}

// GET /stats/windows?size=20
func (h *Handler) getWindowStats(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "size must be a positive integer")
			return
		}
		size = n
	}

	windows, err := h.stats.Windows(r.Context(), size)
	if h.handleError(w, err, "stats") {
		return
	}
	respondJSON(w, http.StatusOK, windows)
}
