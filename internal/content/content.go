// Package content loads the read-only question pool and glossary.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/grader"
	"github.com/examprep/quizcore/internal/worker"
)

// Content is the loaded pool. It is never mutated after construction.
type Content struct {
	questions []question.Question
	byID      map[int]question.Question
	glossary  question.Glossary
}

// New indexes questions by id, keeping the first record of a duplicated
// id. Records whose best answer does not fit their options are kept and
// logged; they always grade as incorrect.
func New(questions []question.Question, glossary question.Glossary, logger *slog.Logger) *Content {
	if logger == nil {
		logger = slog.Default()
	}
	if glossary == nil {
		glossary = question.Glossary{}
	}

	c := &Content{
		questions: make([]question.Question, 0, len(questions)),
		byID:      make(map[int]question.Question, len(questions)),
		glossary:  glossary,
	}
	for _, q := range questions {
		if _, dup := c.byID[q.ID]; dup {
			logger.Warn("skipping duplicate question id", "question_id", q.ID)
			continue
		}
		if err := grader.Validate(q); err != nil {
			logger.Warn("malformed question", "question_id", q.ID, "error", err)
		}
		c.byID[q.ID] = q
		c.questions = append(c.questions, q)
	}
	return c
}

type loaded struct {
	questions []question.Question
	glossary  question.Glossary
	err       error
}

// Load reads both files concurrently. A missing glossary file yields an
// empty glossary; a missing question file is an error.
func Load(ctx context.Context, questionsPath, glossaryPath string, logger *slog.Logger) (*Content, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool := worker.NewPool[loaded](2, 2)
	pool.Submit("questions", func() loaded {
		var qs []question.Question
		err := decodeFile(questionsPath, &qs)
		return loaded{questions: qs, err: err}
	})
	pool.Submit("glossary", func() loaded {
		var g question.Glossary
		err := decodeFile(glossaryPath, &g)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("glossary file not found, continuing without glossary", "path", glossaryPath)
			err = nil
		}
		return loaded{glossary: g, err: err}
	})
	pool.Close()

	var questions []question.Question
	var glossary question.Glossary
	for remaining := 2; remaining > 0; remaining-- {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-pool.Results():
			if res.Output.err != nil {
				return nil, fmt.Errorf("load %s: %w", res.JobID, res.Output.err)
			}
			switch res.JobID {
			case "questions":
				questions = res.Output.questions
			case "glossary":
				glossary = res.Output.glossary
			}
		}
	}

	c := New(questions, glossary, logger)
	logger.Info("content loaded", "questions", len(c.questions), "glossary_terms", len(c.glossary))
	return c, nil
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Questions returns the pool in source order. Callers must not modify it.
func (c *Content) Questions() []question.Question {
	return c.questions
}

func (c *Content) Question(id int) (question.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

func (c *Content) Size() int {
	return len(c.questions)
}

func (c *Content) Term(name string) (question.GlossaryEntry, bool) {
	e, ok := c.glossary[name]
	return e, ok
}

// Terms lists glossary terms alphabetically.
func (c *Content) Terms() []string {
	return c.glossary.Terms()
}

func (c *Content) Glossary() question.Glossary {
	return c.glossary
}
