package api

import (
	"errors"
	"net/http"

	practicesession "github.com/examprep/quizcore/internal/domain/practice_session"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	Filter     practicesession.Filter `json:"filter"`
	Mode       practicesession.Mode   `json:"mode"`
	Topic      string                 `json:"topic"`
	SampleSize *int                   `json:"sample_size"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.Mode == "" {
		r.Mode = practicesession.ModeSequential
	}
	if r.Filter == "" {
		r.Filter = practicesession.FilterAll
	}
	if r.Mode == practicesession.ModeTopic && r.Topic == "" {
		return errors.New("topic is required in topic mode")
	}
	return r.config().Validate()
}

func (r *CreateSessionRequest) config() practicesession.SessionConfig {
	return practicesession.SessionConfig{
		Filter:     r.Filter,
		Mode:       r.Mode,
		Topic:      r.Topic,
		SampleSize: r.SampleSize,
	}
}

type SubmitAnswerRequest struct {
	QuestionID int             `json:"question_id"`
	Answer     question.Answer `json:"answer"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.QuestionID <= 0 {
		return errors.New("question_id is required")
	}
	return nil
}

// GotoRequest names a 1-based position, as shown on the answer sheet.
type GotoRequest struct {
	Position int `json:"position"`
}

func (r *GotoRequest) Validate() error {
	if r.Position < 1 {
		return errors.New("position must be at least 1")
	}
	return nil
}

type SessionResponse struct {
	ID       string                 `json:"id"`
	Filter   practicesession.Filter `json:"filter"`
	Mode     practicesession.Mode   `json:"mode"`
	Topic    string                 `json:"topic,omitempty"`
	Total    int                    `json:"total"`
	Position int                    `json:"position"`
	Current  *QuestionResponse      `json:"current"`
}

type StartSessionResponse struct {
	SessionResponse
	Resumed bool `json:"resumed"`
}

type CompletionResponse struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

type NavResponse struct {
	SessionResponse
	Completion *CompletionResponse `json:"completion,omitempty"`
}

type AnswerResponse struct {
	QuestionID    int                   `json:"question_id"`
	Chosen        string                `json:"chosen"`
	Correct       bool                  `json:"correct"`
	BestAnswer    []string              `json:"best_answer"`
	RequiredCount int                   `json:"answer_count"`
	Explanation   *question.Explanation `json:"explanation,omitempty"`
	TodayCount    int                   `json:"today_count"`
	Milestone     *int                  `json:"milestone,omitempty"`
}

type SheetEntryResponse struct {
	Position   int                         `json:"position"`
	QuestionID int                         `json:"question_id"`
	Status     practicesession.SheetStatus `json:"status"`
}

// toSessionResponse reports Position 1-based and 0 for an empty session.
func toSessionResponse(s practicesession.PracticeSession, lang question.Lang) SessionResponse {
	resp := SessionResponse{
		ID:     s.ID,
		Filter: s.Config.Filter,
		Mode:   s.Config.Mode,
		Topic:  s.Config.Topic,
		Total:  len(s.Questions),
	}
	if q, ok := s.Current(); ok {
		view := toQuestionResponse(q, lang)
		resp.Current = &view
		resp.Position = s.Index + 1
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /practice/sessions
func (h *Handler) createPracticeSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.practice.Start(r.Context(), req.config())
	if h.handleError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusCreated, StartSessionResponse{
		SessionResponse: toSessionResponse(*res.Session, langFromRequest(r)),
		Resumed:         res.Resumed,
	})
}

// GET /practice/sessions/{sessionID}
func (h *Handler) getPracticeSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.practice.Get(r.PathValue("sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session, langFromRequest(r)))
}

// POST /practice/sessions/{sessionID}/answers
func (h *Handler) submitPracticeAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.practice.Answer(r.Context(), r.PathValue("sessionID"), req.QuestionID, req.Answer)
	if errors.Is(err, service.ErrSessionNotFound) {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if h.handleError(w, err, "question") {
		return
	}

	resp := AnswerResponse{
		QuestionID:    res.QuestionID,
		Chosen:        res.Chosen,
		Correct:       res.Correct,
		BestAnswer:    res.BestAnswer,
		RequiredCount: res.RequiredCount,
		Explanation:   res.Explanation,
		TodayCount:    res.TodayCount,
	}
	if res.Milestone != nil {
		resp.Milestone = &res.Milestone.Threshold
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /practice/sessions/{sessionID}/next
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	res, err := h.practice.Next(r.Context(), r.PathValue("sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toNavResponse(res, langFromRequest(r)))
}

// POST /practice/sessions/{sessionID}/prev
func (h *Handler) prevQuestion(w http.ResponseWriter, r *http.Request) {
	res, err := h.practice.Prev(r.Context(), r.PathValue("sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toNavResponse(res, langFromRequest(r)))
}

// POST /practice/sessions/{sessionID}/goto
func (h *Handler) gotoQuestion(w http.ResponseWriter, r *http.Request) {
	var req GotoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.practice.Goto(r.Context(), r.PathValue("sessionID"), req.Position-1)
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toNavResponse(res, langFromRequest(r)))
}

// POST /practice/sessions/{sessionID}/restart
func (h *Handler) restartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.practice.Restart(r.Context(), r.PathValue("sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session, langFromRequest(r)))
}

func toNavResponse(res service.NavResult, lang question.Lang) NavResponse {
	resp := NavResponse{SessionResponse: toSessionResponse(res.Session, lang)}
	if c := res.Completion; c != nil {
		resp.Completion = &CompletionResponse{Total: c.Total, Answered: c.Answered, Correct: c.Correct}
	}
	return resp
}

// GET /practice/sessions/{sessionID}/sheet
func (h *Handler) getAnswerSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.practice.Sheet(r.Context(), r.PathValue("sessionID"))
	if h.handleError(w, err, "session") {
		return
	}

	response := make([]SheetEntryResponse, len(sheet))
	for i, e := range sheet {
		response[i] = SheetEntryResponse{Position: e.Position + 1, QuestionID: e.QuestionID, Status: e.Status}
	}
	respondJSON(w, http.StatusOK, response)
}
