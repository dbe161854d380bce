package families

import (
	"context"
	"time"
)

type Repo interface {
	Create(ctx context.Context, family Family) error
	Get(ctx context.Context, familyID string) (Family, error)
	ListByMentor(ctx context.Context, mentorID string, filter ListFilter) ([]Family, error)
	IDsByStatus(ctx context.Context, mentorID string, status Status) ([]string, error)
	UpdateContact(ctx context.Context, family Family) error
	// TransitionStatus moves a pending family to status. Families in any
	// other status yield ErrInvalidTransition.
	TransitionStatus(ctx context.Context, familyID string, status Status, reason string, at time.Time) (Family, error)
	CountByStatus(ctx context.Context, mentorID string) (map[Status]int, error)
}
