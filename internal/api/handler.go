package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/examprep/quizcore/internal/content"
	"github.com/examprep/quizcore/internal/domain/mockexam"
	"github.com/examprep/quizcore/internal/grader"
	"github.com/examprep/quizcore/internal/service"
	"github.com/examprep/quizcore/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	content  *content.Content
	practice *service.PracticeService
	mock     *service.MockService
	profile  *service.ProfileService
	stats    *service.StatsService
	logger   *slog.Logger
}

// Services groups what NewHandler needs.
type Services struct {
	Content  *content.Content
	Practice *service.PracticeService
	Mock     *service.MockService
	Profile  *service.ProfileService
	Stats    *service.StatsService
}

func NewHandler(s Services, logger *slog.Logger) *Handler {
	return &Handler{
		content:  s.Content,
		practice: s.Practice,
		mock:     s.Mock,
		profile:  s.Profile,
		stats:    s.Stats,
		logger:   logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

type validator interface {
	Validate() error
}

// decodeAndValidate reads the JSON body into req and runs its Validate.
// It returns false after writing a 400.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req validator) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathInt parses an integer path value, writing a 400 on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		respondError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}

// handleError maps service and store errors to a response. It returns
// true if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownQuestion),
		errors.Is(err, service.ErrUnknownTerm),
		errors.Is(err, service.ErrNoActiveExam),
		errors.Is(err, service.ErrNoOutcome),
		errors.Is(err, mockexam.ErrUnknownQuestion):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, mockexam.ErrNotEnoughQuestions),
		errors.Is(err, mockexam.ErrAlreadyStarted),
		errors.Is(err, mockexam.ErrNotInProgress):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalid),
		errors.Is(err, grader.ErrUnknownOption),
		errors.Is(err, service.ErrPositionOutOfRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrIncompleteSelection):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
