package mentors

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	mentors map[string]Mentor
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		mentors: make(map[string]Mentor),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Upsert(ctx context.Context, mentor Mentor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if existing, ok := r.mentors[mentor.ID]; ok {
		mentor.CreatedAt = existing.CreatedAt
	} else {
		mentor.CreatedAt = now
	}
	mentor.UpdatedAt = now
	r.mentors[mentor.ID] = mentor
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, mentorID string) (Mentor, error) {
	if err := ctx.Err(); err != nil {
		return Mentor{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	mentor, ok := r.mentors[mentorID]
	if !ok {
		return Mentor{}, ErrNotFound
	}
	return mentor, nil
}

var _ Repo = (*MemoryRepo)(nil)
