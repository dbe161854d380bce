package families

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	families map[string]Family
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{families: make(map[string]Family)}
}

func (r *MemoryRepo) Create(ctx context.Context, family Family) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[family.ID] = family
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, familyID string) (Family, error) {
	if err := ctx.Err(); err != nil {
		return Family{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	family, ok := r.families[familyID]
	if !ok {
		return Family{}, ErrNotFound
	}
	return family, nil
}

func (r *MemoryRepo) ListByMentor(ctx context.Context, mentorID string, filter ListFilter) ([]Family, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var items []Family
	for _, family := range r.families {
		if family.MentorID != mentorID {
			continue
		}
		if filter.Status != "" && family.Status != filter.Status {
			continue
		}
		items = append(items, family)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if filter.Offset >= len(items) {
		return []Family{}, nil
	}
	end := len(items)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return items[filter.Offset:end], nil
}

func (r *MemoryRepo) IDsByStatus(ctx context.Context, mentorID string, status Status) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := []string{}
	for _, family := range r.families {
		if family.MentorID == mentorID && family.Status == status {
			ids = append(ids, family.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryRepo) UpdateContact(ctx context.Context, family Family) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.families[family.ID]
	if !ok {
		return ErrNotFound
	}
	existing.ResponsibleName = family.ResponsibleName
	existing.Phone = family.Phone
	existing.Address = family.Address
	existing.City = family.City
	existing.MembersCount = family.MembersCount
	existing.UpdatedAt = family.UpdatedAt
	r.families[family.ID] = existing
	return nil
}

func (r *MemoryRepo) TransitionStatus(ctx context.Context, familyID string, status Status, reason string, at time.Time) (Family, error) {
	if err := ctx.Err(); err != nil {
		return Family{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	family, ok := r.families[familyID]
	if !ok {
		return Family{}, ErrNotFound
	}
	if family.Status != StatusPending {
		return Family{}, ErrInvalidTransition
	}
	family.Status = status
	family.UpdatedAt = at
	if status == StatusApproved {
		approvedAt := at
		family.ApprovedAt = &approvedAt
	}
	if status == StatusRejected {
		family.RejectionReason = reason
	}
	r.families[familyID] = family
	return family, nil
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, mentorID string) (map[Status]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int)
	for _, family := range r.families {
		if family.MentorID == mentorID {
			counts[family.Status]++
		}
	}
	return counts, nil
}

var _ Repo = (*MemoryRepo)(nil)
