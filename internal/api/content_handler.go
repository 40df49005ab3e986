package api

import (
	"net/http"

	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/grader"
)

// ── Request / Response types ────────────────────────────────────────────────

// QuestionResponse never carries the answer; see AnswerResponse.
type QuestionResponse struct {
	ID            int               `json:"id"`
	Lang          question.Lang     `json:"lang"`
	Prompt        string            `json:"question"`
	Options       map[string]string `json:"options"`
	Image         string            `json:"question_image,omitempty"`
	OptionImages  map[string]string `json:"option_images,omitempty"`
	Multiple      bool              `json:"is_multiple"`
	RequiredCount int               `json:"answer_count"`
	Tags          []string          `json:"tags"`
	RelatedTerms  []string          `json:"related_terms"`
}

// langFromRequest reads ?lang=, defaulting to Chinese.
func langFromRequest(r *http.Request) question.Lang {
	if question.Lang(r.URL.Query().Get("lang")) == question.LangEN {
		return question.LangEN
	}
	return question.LangCN
}

func toQuestionResponse(q question.Question, lang question.Lang) QuestionResponse {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	terms := q.RelatedTerms
	if terms == nil {
		terms = []string{}
	}
	return QuestionResponse{
		ID:            q.ID,
		Lang:          lang,
		Prompt:        q.Prompt(lang),
		Options:       q.Options(lang),
		Image:         q.Image,
		OptionImages:  q.OptionImages,
		Multiple:      grader.IsMultiple(q),
		RequiredCount: grader.RequiredCount(q),
		Tags:          tags,
		RelatedTerms:  terms,
	}
}

func toQuestionResponses(qs []question.Question, lang question.Lang) []QuestionResponse {
	out := make([]QuestionResponse, len(qs))
	for i, q := range qs {
		out[i] = toQuestionResponse(q, lang)
	}
	return out
}

type TopicResponse struct {
	Root    string `json:"root"`
	Total   int    `json:"total"`
	Done    int    `json:"done"`
	Percent int    `json:"pct"`
}

type GlossaryCategory struct {
	Name  string   `json:"name"`
	Terms []string `json:"terms"`
}

type GlossaryResponse struct {
	Total      int                `json:"total"`
	Categories []GlossaryCategory `json:"categories"`
}

type TermResponse struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	question.GlossaryEntry
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /questions/{questionID}
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathInt(w, r, "questionID")
	if !ok {
		return
	}

	q, found := h.content.Question(questionID)
	if !found {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(q, langFromRequest(r)))
}

// GET /topics
func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.practice.Topics(r.Context())
	if h.handleError(w, err, "topics") {
		return
	}

	response := make([]TopicResponse, len(topics))
	for i, t := range topics {
		response[i] = TopicResponse{Root: t.Root, Total: t.Total, Done: t.Done, Percent: t.Percent}
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /glossary
func (h *Handler) listGlossary(w http.ResponseWriter, r *http.Request) {
	terms := h.content.Terms()
	groups := question.GroupTerms(terms)

	response := GlossaryResponse{Total: len(terms), Categories: []GlossaryCategory{}}
	for _, name := range question.CategoryOrder() {
		if len(groups[name]) == 0 {
			continue
		}
		response.Categories = append(response.Categories, GlossaryCategory{Name: name, Terms: groups[name]})
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /glossary/{term}
func (h *Handler) getTerm(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")

	entry, ok := h.content.Term(term)
	if !ok {
		respondError(w, http.StatusNotFound, "term not found")
		return
	}
	respondJSON(w, http.StatusOK, TermResponse{
		Term:          term,
		Category:      question.CategoryFor(term),
		GlossaryEntry: entry,
	})
}
