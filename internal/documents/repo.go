package documents

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid document input")
)

type Repo interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, documentID string) (Document, error)
	ListByFamily(ctx context.Context, familyID string, limit, offset int) ([]Document, error)
}
