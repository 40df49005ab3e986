package question

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Lang selects one of the two text variants carried by every question.
type Lang string

const (
	LangCN Lang = "cn"
	LangEN Lang = "en"
)

// Answer is a set of option letters as authored or as chosen by a user.
// On the wire it is either a single string ("A", or a legacy
// concatenation such as "AB") or an array of strings.
type Answer []string

func (a *Answer) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*a = nil
		} else {
			*a = Answer{s}
		}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("answer must be a string or an array of strings: %w", err)
	}
	*a = arr
	return nil
}

// Explanation is the structured rationale shown after answering.
type Explanation struct {
	Analysis   string `json:"analysis"`
	WhyCorrect string `json:"why_correct"`
	WhyWrong   string `json:"why_wrong"`
}

// Question is a read-only content record. The engine never mutates it.
type Question struct {
	ID             int               `json:"id"`
	PromptCN       string            `json:"question_cn"`
	PromptEN       string            `json:"question_en,omitempty"`
	OptionsCN      map[string]string `json:"options_cn"`
	OptionsEN      map[string]string `json:"options_en,omitempty"`
	Image          string            `json:"question_image,omitempty"`
	OptionImages   map[string]string `json:"option_images,omitempty"`
	BestAnswer     Answer            `json:"best_answer"`
	OfficialAnswer Answer            `json:"official_answer,omitempty"`
	Multiple       *bool             `json:"is_multiple,omitempty"`
	AnswerCount    *int              `json:"answer_count,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	RelatedTerms   []string          `json:"related_terms,omitempty"`
	Explanation    *Explanation      `json:"explanation,omitempty"`
}

// Prompt returns the prompt in the requested language, falling back to
// the Chinese variant when no English text was authored.
func (q Question) Prompt(lang Lang) string {
	if lang == LangEN && q.PromptEN != "" {
		return q.PromptEN
	}
	return q.PromptCN
}

// Options returns the option texts in the requested language with the
// same fallback as Prompt.
func (q Question) Options(lang Lang) map[string]string {
	if lang == LangEN && len(q.OptionsEN) > 0 {
		return q.OptionsEN
	}
	return q.OptionsCN
}

// OptionLetters returns the sorted, upper-cased option labels.
func (q Question) OptionLetters() []string {
	letters := make([]string, 0, len(q.OptionsCN))
	for k := range q.OptionsCN {
		letters = append(letters, strings.ToUpper(strings.TrimSpace(k)))
	}
	sort.Strings(letters)
	return letters
}

// TopicRoot returns the first whitespace-delimited token of a tag.
// "ALB Health Checks" groups under "ALB".
func TopicRoot(tag string) string {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return tag
	}
	return fields[0]
}

// HasTopic reports whether any tag equals topic or refines it
// ("S3" matches "S3" and "S3 Lifecycle", not "S3Express").
func (q Question) HasTopic(topic string) bool {
	for _, t := range q.Tags {
		if t == topic || strings.HasPrefix(t, topic+" ") {
			return true
		}
	}
	return false
}

// Roots returns the distinct topic roots of the question's tags.
func (q Question) Roots() []string {
	seen := make(map[string]bool, len(q.Tags))
	var roots []string
	for _, t := range q.Tags {
		r := TopicRoot(t)
		if !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}
	return roots
}

// Index builds an id lookup over a pool.
func Index(pool []Question) map[int]Question {
	m := make(map[int]Question, len(pool))
	for _, q := range pool {
		m[q.ID] = q
	}
	return m
}
