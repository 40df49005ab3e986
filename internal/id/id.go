package id

import "github.com/google/uuid"

// New returns a random RFC 4122 identifier for sessions, exams and
// history entries.
func New() string {
	return uuid.NewString()
}
