package goals

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	goals map[string]Goal
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{goals: make(map[string]Goal)}
}

func (r *MemoryRepo) Create(ctx context.Context, g Goal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[g.ID] = g
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, goalID string) (Goal, error) {
	if err := ctx.Err(); err != nil {
		return Goal{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.goals[goalID]
	if !ok {
		return Goal{}, ErrNotFound
	}
	return g, nil
}

func (r *MemoryRepo) ListByFamily(ctx context.Context, familyID string) ([]Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := []Goal{}
	for _, g := range r.goals {
		if g.FamilyID == familyID {
			items = append(items, g)
		}
	}
	r.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *MemoryRepo) Update(ctx context.Context, g Goal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[g.ID]; !ok {
		return ErrNotFound
	}
	r.goals[g.ID] = g
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, goalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[goalID]; !ok {
		return ErrNotFound
	}
	delete(r.goals, goalID)
	return nil
}

func (r *MemoryRepo) AcceptRecommendations(ctx context.Context, familyID string, candidates []Goal) ([]Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[string]bool)
	for _, g := range r.goals {
		if g.FamilyID == familyID && g.RecommendationKey != "" {
			existing[g.RecommendationKey] = true
		}
	}
	created := []Goal{}
	for _, g := range candidates {
		if existing[g.RecommendationKey] {
			continue
		}
		existing[g.RecommendationKey] = true
		r.goals[g.ID] = g
		created = append(created, g)
	}
	return created, nil
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, mentorID string) (map[Status]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int)
	for _, g := range r.goals {
		if g.MentorID == mentorID {
			counts[g.Status]++
		}
	}
	return counts, nil
}

var _ Repo = (*MemoryRepo)(nil)
