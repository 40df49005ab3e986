package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examprep/quizcore/internal/domain/progress"
)

// ── Request / Response types ────────────────────────────────────────────────

type ToggleResponse struct {
	ID       any  `json:"id"`
	Selected bool `json:"selected"`
}

type IDsResponse struct {
	IDs []int `json:"ids"`
}

type TermsResponse struct {
	Terms []string `json:"terms"`
}

type UpdateProfileRequest struct {
	Nickname string         `json:"nickname"`
	Theme    progress.Theme `json:"theme"`
	Sound    bool           `json:"sound"`
	Mascot   *bool          `json:"mascot"`
	ExamDate string         `json:"exam_date"`
}

func (r *UpdateProfileRequest) Validate() error {
	switch r.Theme {
	case "", progress.ThemeRelaxed, progress.ThemeFocus:
	default:
		return errors.New("theme must be relaxed or focus")
	}
	return nil
}

func (r *UpdateProfileRequest) settings() progress.Settings {
	mascot := true
	if r.Mascot != nil {
		mascot = *r.Mascot
	}
	return progress.Settings{
		Nickname: r.Nickname,
		Theme:    r.Theme,
		Sound:    r.Sound,
		Mascot:   mascot,
		ExamDate: r.ExamDate,
	}
}

type ImportRequest struct {
	Values map[string]json.RawMessage `json:"values"`
}

func (r *ImportRequest) Validate() error {
	if len(r.Values) == 0 {
		return errors.New("values is required")
	}
	return nil
}

type ExportResponse struct {
	Values map[string]json.RawMessage `json:"values"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /favorites
func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.profile.Favorites(r.Context())
	if h.handleError(w, err, "favorites") {
		return
	}
	respondJSON(w, http.StatusOK, IDsResponse{IDs: ids})
}

// POST /favorites/{questionID}
func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathInt(w, r, "questionID")
	if !ok {
		return
	}

	selected, err := h.profile.ToggleFavorite(r.Context(), questionID)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, ToggleResponse{ID: questionID, Selected: selected})
}

// GET /wrong
func (h *Handler) listWrong(w http.ResponseWriter, r *http.Request) {
	ids, err := h.profile.Wrong(r.Context())
	if h.handleError(w, err, "wrong answers") {
		return
	}
	respondJSON(w, http.StatusOK, IDsResponse{IDs: ids})
}

// DELETE /wrong/{questionID}
func (h *Handler) removeWrong(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathInt(w, r, "questionID")
	if !ok {
		return
	}

	if h.handleError(w, h.profile.RemoveWrong(r.Context(), questionID), "wrong answer") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /terms/favorites
func (h *Handler) listFavoriteTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.profile.FavoriteTerms(r.Context())
	if h.handleError(w, err, "terms") {
		return
	}
	respondJSON(w, http.StatusOK, TermsResponse{Terms: terms})
}

// POST /terms/favorites/{term}
func (h *Handler) toggleFavoriteTerm(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")

	selected, err := h.profile.ToggleFavoriteTerm(r.Context(), term)
	if h.handleError(w, err, "term") {
		return
	}
	respondJSON(w, http.StatusOK, ToggleResponse{ID: term, Selected: selected})
}

// GET /profile
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	settings, err := h.profile.Settings(r.Context())
	if h.handleError(w, err, "profile") {
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// PUT /profile
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.profile.UpdateSettings(r.Context(), req.settings())
	if h.handleError(w, err, "profile") {
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// GET /data/export
func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	values, err := h.profile.Export(r.Context())
	if h.handleError(w, err, "data") {
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="quiz-progress.json"`)
	respondJSON(w, http.StatusOK, ExportResponse{Values: values})
}

// POST /data/import
func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	n, err := h.profile.Import(r.Context(), req.Values)
	if h.handleError(w, err, "data") {
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Imported: n})
}

// DELETE /data
func (h *Handler) clearData(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.profile.ClearAll(r.Context()), "data") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
