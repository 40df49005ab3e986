// Package store is the persistence collaborator: a namespaced string
// key-value contract with several backends, and State, the typed view the
// rest of the engine reads and writes through.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid value")
)

// KV stores one string value per key. Each Set is a full overwrite.
type KV interface {
	// Get returns ErrNotFound when key has no value.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keys, one per persisted concern.
const (
	KeyProgress      = "aws-exam-progress"
	KeyWrong         = "aws-exam-wrong"
	KeyFavorite      = "aws-exam-favorite"
	KeyExamDate      = "aws-exam-date"
	KeyFavoriteTerms = "aws-exam-favorite-terms"
	KeyPracticeState = "aws-practice-state"
	KeyMockHistory   = "aws-mock-history"
	KeyToday         = "aws-exam-today"
	KeyMilestones    = "aws-exam-milestones"
	KeyMascot        = "aws-exam-mascot-phrases"
	KeyNickname      = "aws-exam-nickname"
	KeyTheme         = "aws-exam-theme"
	KeySound         = "aws-exam-sound"
	KeyAnswerHistory = "aws-exam-answer-history"
)

// AllKeys lists every key ClearAll removes.
var AllKeys = []string{
	KeyProgress,
	KeyWrong,
	KeyFavorite,
	KeyExamDate,
	KeyFavoriteTerms,
	KeyPracticeState,
	KeyMockHistory,
	KeyToday,
	KeyMilestones,
	KeyMascot,
	KeyNickname,
	KeyTheme,
	KeySound,
	KeyAnswerHistory,
}
