package mentors

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("mentor not found")
	ErrInvalidInput = errors.New("invalid mentor input")
)

type Repo interface {
	Upsert(ctx context.Context, mentor Mentor) error
	GetByID(ctx context.Context, mentorID string) (Mentor, error)
}
