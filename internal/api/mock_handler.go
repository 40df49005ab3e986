package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/examprep/quizcore/internal/domain/mockexam"
	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type SetMockAnswerRequest struct {
	Answer question.Answer `json:"answer"`
}

func (r *SetMockAnswerRequest) Validate() error { return nil }

type ToggleOptionRequest struct {
	Letter string `json:"letter"`
}

func (r *ToggleOptionRequest) Validate() error {
	if r.Letter == "" {
		return errors.New("letter is required")
	}
	return nil
}

type SubmitMockRequest struct {
	Confirm bool `json:"confirm"`
}

func (r *SubmitMockRequest) Validate() error { return nil }

type ExamResponse struct {
	ID                 string             `json:"id"`
	State              mockexam.State     `json:"state"`
	RemainingSeconds   int                `json:"remaining_seconds"`
	StartedAt          time.Time          `json:"started_at"`
	Questions          []QuestionResponse `json:"questions"`
	Answers            map[int]string     `json:"answers"`
	Unanswered         int                `json:"unanswered"`
	ConfirmationPrompt string             `json:"confirmation_prompt"`
}

type ConfirmationResponse struct {
	Error  string `json:"error"`
	Prompt string `json:"prompt"`
}

type OutcomeResponse struct {
	ExamID           string                    `json:"exam_id"`
	CorrectCount     int                       `json:"correct_count"`
	Total            int                       `json:"total"`
	Percent          int                       `json:"pct"`
	Passed           bool                      `json:"passed"`
	PassPercent      int                       `json:"pass_pct"`
	TimeSpentSeconds int                       `json:"time_spent_seconds"`
	Auto             bool                      `json:"auto_submitted"`
	WrongIDs         []int                     `json:"wrong_ids"`
	UnansweredIDs    []int                     `json:"unanswered_ids"`
	WrongAdded       bool                      `json:"wrong_added"`
	History          progress.MockHistoryEntry `json:"history"`
}

func toExamResponse(v service.ExamView, lang question.Lang) ExamResponse {
	return ExamResponse{
		ID:                 v.ID,
		State:              v.State,
		RemainingSeconds:   v.RemainingSeconds,
		StartedAt:          v.StartedAt,
		Questions:          toQuestionResponses(v.Questions, lang),
		Answers:            v.Answers,
		Unanswered:         v.Unanswered,
		ConfirmationPrompt: v.ConfirmationPrompt,
	}
}

func toOutcomeResponse(o service.Outcome) OutcomeResponse {
	wrong := make([]int, len(o.Result.WrongIDs))
	copy(wrong, o.Result.WrongIDs)
	sort.Ints(wrong)
	return OutcomeResponse{
		ExamID:           o.ExamID,
		CorrectCount:     o.Result.CorrectCount,
		Total:            o.Result.Total,
		Percent:          o.Percent,
		Passed:           o.Passed,
		PassPercent:      o.PassPercent,
		TimeSpentSeconds: o.Result.TimeSpentSeconds,
		Auto:             o.Result.Auto,
		WrongIDs:         wrong,
		UnansweredIDs:    o.Result.UnansweredIDs,
		WrongAdded:       o.WrongAdded,
		History:          o.History,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /mock
func (h *Handler) startMock(w http.ResponseWriter, r *http.Request) {
	exam, err := h.mock.Start()
	if h.handleError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusCreated, toExamResponse(exam, langFromRequest(r)))
}

// GET /mock
func (h *Handler) getMock(w http.ResponseWriter, r *http.Request) {
	exam, err := h.mock.Current()
	if h.handleError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusOK, toExamResponse(exam, langFromRequest(r)))
}

// PUT /mock/answers/{questionID}
func (h *Handler) setMockAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathInt(w, r, "questionID")
	if !ok {
		return
	}

	var req SetMockAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exam, err := h.mock.SetAnswer(questionID, req.Answer)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toExamResponse(exam, langFromRequest(r)))
}

// POST /mock/answers/{questionID}/toggle
func (h *Handler) toggleMockOption(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathInt(w, r, "questionID")
	if !ok {
		return
	}

	var req ToggleOptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exam, err := h.mock.Toggle(questionID, req.Letter)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toExamResponse(exam, langFromRequest(r)))
}

// POST /mock/submit
func (h *Handler) submitMock(w http.ResponseWriter, r *http.Request) {
	var req SubmitMockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := h.mock.Submit(req.Confirm)
	if errors.Is(err, service.ErrConfirmationRequired) {
		prompt, promptErr := h.mock.ConfirmationPrompt()
		if h.handleError(w, promptErr, "exam") {
			return
		}
		respondJSON(w, http.StatusConflict, ConfirmationResponse{Error: err.Error(), Prompt: prompt})
		return
	}
	if h.handleError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusOK, toOutcomeResponse(outcome))
}

// POST /mock/abandon
func (h *Handler) abandonMock(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.mock.Abandon(), "exam") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /mock/result
func (h *Handler) getMockResult(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.mock.LastOutcome()
	if h.handleError(w, err, "result") {
		return
	}
	respondJSON(w, http.StatusOK, toOutcomeResponse(outcome))
}

// POST /mock/result/wrong
func (h *Handler) addMockWrong(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.mock.AddOutcomeToWrong(r.Context())
	if h.handleError(w, err, "result") {
		return
	}
	respondJSON(w, http.StatusOK, toOutcomeResponse(outcome))
}

// GET /mock/history
func (h *Handler) listMockHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.mock.History(r.Context())
	if h.handleError(w, err, "history") {
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// DELETE /mock/history/{entryID}
func (h *Handler) deleteMockHistory(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.mock.RemoveHistory(r.Context(), r.PathValue("entryID")), "history entry") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /mock/history
func (h *Handler) clearMockHistory(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.mock.ClearHistory(r.Context()), "history") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
