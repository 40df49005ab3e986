package grader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/examprep/quizcore/internal/domain/question"
)

// ErrUnknownOption marks a selected letter outside the question's options.
var ErrUnknownOption = errors.New("unknown option")

// Grader decides whether a user's selection answers a question.
// Implementations must be pure: no I/O, no state.
type Grader interface {
	IsCorrect(q question.Question, answer question.Answer) bool
}

// Exact grants credit only for the complete best-answer set.
type Exact struct{}

// Compile-time check: Exact satisfies the Grader interface.
var _ Grader = Exact{}

func (Exact) IsCorrect(q question.Question, answer question.Answer) bool {
	return IsCorrect(q, answer)
}

// Normalize converts a raw answer into sorted, deduplicated, upper-case
// single-letter tokens. A multi-character element is split: on commas or
// whitespace when present ("A,B"), otherwise letter by letter ("AB").
// Anything that is not a letter is dropped.
func Normalize(raw question.Answer) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, el := range raw {
		for _, tok := range tokens(el) {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	sort.Strings(out)
	return out
}

func tokens(el string) []string {
	s := strings.ToUpper(strings.TrimSpace(el))
	if s == "" {
		return nil
	}

	var parts []string
	if strings.ContainsAny(s, ", \t") {
		parts = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	} else {
		parts = []string{s}
	}

	var out []string
	for _, p := range parts {
		for _, r := range p {
			if r >= 'A' && r <= 'Z' {
				out = append(out, string(r))
			}
		}
	}
	return out
}

// Parse splits a joined selection such as "A,C" into an Answer.
func Parse(joined string) question.Answer {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	return question.Answer(strings.Split(joined, ","))
}

// Join renders an answer in its stored, order-independent form.
func Join(answer question.Answer) string {
	return strings.Join(Normalize(answer), ",")
}

// BestAnswer returns the normalized canonical answer of q.
func BestAnswer(q question.Question) []string {
	return Normalize(q.BestAnswer)
}

// IsCorrect reports whether answer matches the best answer exactly.
// There is no partial credit, and a question that fails Validate never
// grades correct.
func IsCorrect(q question.Question, answer question.Answer) bool {
	if Validate(q) != nil {
		return false
	}
	best := BestAnswer(q)
	user := Normalize(answer)
	if len(best) != len(user) {
		return false
	}
	return strings.Join(best, "") == strings.Join(user, "")
}

// CheckOptions rejects a selection naming a letter q does not offer.
func CheckOptions(q question.Question, answer question.Answer) error {
	letters := optionSet(q)
	for _, l := range Normalize(answer) {
		if !letters[l] {
			return fmt.Errorf("%w: %q is not an option of question %d", ErrUnknownOption, l, q.ID)
		}
	}
	return nil
}

func optionSet(q question.Question) map[string]bool {
	letters := make(map[string]bool, len(q.OptionsCN))
	for _, l := range q.OptionLetters() {
		letters[l] = true
	}
	return letters
}

// Validate checks that the best answer is non-empty and uses only the
// question's option letters.
func Validate(q question.Question) error {
	best := BestAnswer(q)
	if len(best) == 0 {
		return fmt.Errorf("question %d: best answer is empty", q.ID)
	}
	letters := optionSet(q)
	for _, b := range best {
		if !letters[b] {
			return fmt.Errorf("question %d: best answer %q is not an option", q.ID, b)
		}
	}
	return nil
}
