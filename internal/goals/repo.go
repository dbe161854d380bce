package goals

import "context"

type Repo interface {
	Create(ctx context.Context, g Goal) error
	Get(ctx context.Context, goalID string) (Goal, error)
	ListByFamily(ctx context.Context, familyID string) ([]Goal, error)
	Update(ctx context.Context, g Goal) error
	Delete(ctx context.Context, goalID string) error
	// AcceptRecommendations inserts every candidate whose recommendation key
	// is not yet a goal of the family and returns the inserted goals.
	// Concurrent calls for the same family are serialised.
	AcceptRecommendations(ctx context.Context, familyID string, candidates []Goal) ([]Goal, error)
	CountByStatus(ctx context.Context, mentorID string) (map[Status]int, error)
}
