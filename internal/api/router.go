package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Content
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)
	mux.HandleFunc("GET /topics", h.listTopics)
	mux.HandleFunc("GET /glossary", h.listGlossary)
	mux.HandleFunc("GET /glossary/{term}", h.getTerm)

	// Practice
	mux.HandleFunc("POST /practice/sessions", h.createPracticeSession)
	mux.HandleFunc("GET /practice/sessions/{sessionID}", h.getPracticeSession)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/answers", h.submitPracticeAnswer)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/next", h.nextQuestion)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/prev", h.prevQuestion)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/goto", h.gotoQuestion)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/restart", h.restartSession)
	mux.HandleFunc("GET /practice/sessions/{sessionID}/sheet", h.getAnswerSheet)

	// Mock exam
	mux.HandleFunc("POST /mock", h.startMock)
	mux.HandleFunc("GET /mock", h.getMock)
	mux.HandleFunc("PUT /mock/answers/{questionID}", h.setMockAnswer)
	mux.HandleFunc("POST /mock/answers/{questionID}/toggle", h.toggleMockOption)
	mux.HandleFunc("POST /mock/submit", h.submitMock)
	mux.HandleFunc("POST /mock/abandon", h.abandonMock)
	mux.HandleFunc("GET /mock/result", h.getMockResult)
	mux.HandleFunc("POST /mock/result/wrong", h.addMockWrong)
	mux.HandleFunc("GET /mock/history", h.listMockHistory)
	mux.HandleFunc("DELETE /mock/history/{entryID}", h.deleteMockHistory)
	mux.HandleFunc("DELETE /mock/history", h.clearMockHistory)

	// Stats
	mux.HandleFunc("GET /stats/overview", h.getOverview)
	mux.HandleFunc("GET /stats/daily", h.getDailyStats)
	mux.HandleFunc("GET /stats/windows", h.getWindowStats)

	// Collections
	mux.HandleFunc("GET /favorites", h.listFavorites)
	mux.HandleFunc("POST /favorites/{questionID}", h.toggleFavorite)
	mux.HandleFunc("GET /wrong", h.listWrong)
	mux.HandleFunc("DELETE /wrong/{questionID}", h.removeWrong)
	mux.HandleFunc("GET /terms/favorites", h.listFavoriteTerms)
	mux.HandleFunc("POST /terms/favorites/{term}", h.toggleFavoriteTerm)

	// Profile and data
	mux.HandleFunc("GET /profile", h.getProfile)
	mux.HandleFunc("PUT /profile", h.updateProfile)
	mux.HandleFunc("GET /data/export", h.exportData)
	mux.HandleFunc("POST /data/import", h.importData)
	mux.HandleFunc("DELETE /data", h.clearData)
}

// NewRouter returns the full HTTP handler: health check, routes and the
// middleware chain.
func NewRouter(h *Handler, origins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	RegisterRoutes(mux, h)
	return Wrap(mux, h.logger, origins)
}
