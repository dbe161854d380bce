package goals

import "errors"

var (
	ErrNotFound     = errors.New("goal not found")
	ErrInvalidInput = errors.New("invalid goal input")
	// ErrNoAssessment is returned by AnswerSource when the family has never
	// been assessed.
	ErrNoAssessment = errors.New("family has no assessment")
)
