package grader

import (
	"regexp"

	"github.com/examprep/quizcore/internal/domain/question"
)

// No \b anchors: word boundaries do not apply between CJK characters,
// so "（选二）" would never match.
var (
	chooseTwo   = regexp.MustCompile(`(?i)选二|选择两个|Select\s+TWO`)
	chooseThree = regexp.MustCompile(`(?i)选三|选择三个|Select\s+THREE`)
)

// InferCount scans prompt text for "choose two" / "choose three" and
// returns 2 or 3, or 0 when there is no signal.
func InferCount(text string) int {
	switch {
	case text == "":
		return 0
	case chooseTwo.MatchString(text):
		return 2
	case chooseThree.MatchString(text):
		return 3
	}
	return 0
}

// inferFromPrompts checks the Chinese prompt first, then the English one.
func inferFromPrompts(q question.Question) int {
	if n := InferCount(q.PromptCN); n > 0 {
		return n
	}
	return InferCount(q.PromptEN)
}

// IsMultiple reports whether q is multi-select: explicit flag, more than
// one best-answer letter, or a prompt asking for more than one choice.
func IsMultiple(q question.Question) bool {
	if q.Multiple != nil && *q.Multiple {
		return true
	}
	if len(BestAnswer(q)) > 1 {
		return true
	}
	return inferFromPrompts(q) > 1
}

// RequiredCount returns how many options must be chosen.
// Precedence: explicit positive count, prompt inference, best-answer
// length, and never less than 1.
func RequiredCount(q question.Question) int {
	if q.AnswerCount != nil && *q.AnswerCount > 0 {
		return *q.AnswerCount
	}
	if n := inferFromPrompts(q); n > 0 {
		return n
	}
	if n := len(BestAnswer(q)); n > 0 {
		return n
	}
	return 1
}
