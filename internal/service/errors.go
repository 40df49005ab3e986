package service

import "errors"

var (
	ErrSessionNotFound      = errors.New("practice session not found")
	ErrUnknownQuestion      = errors.New("question not found")
	ErrUnknownTerm          = errors.New("glossary term not found")
	ErrIncompleteSelection  = errors.New("selection is incomplete")
	ErrPositionOutOfRange   = errors.New("position is outside the session")
	ErrNoActiveExam         = errors.New("no active mock exam")
	ErrNoOutcome            = errors.New("no mock exam result")
	ErrConfirmationRequired = errors.New("submission needs confirmation")
)
