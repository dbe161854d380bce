package assessments

import (
	"context"
	"sort"
	"sync"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

type MemoryRepo struct {
	mu          sync.RWMutex
	assessments map[string]Assessment
	drafts      map[string]Draft
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		assessments: make(map[string]Assessment),
		drafts:      make(map[string]Draft),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, a Assessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Answers = a.Answers.Clone()
	a.DimensionScores = cloneDims(a.DimensionScores)
	r.assessments[a.ID] = a
	delete(r.drafts, a.FamilyID)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, assessmentID string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assessments[assessmentID]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) ListByFamily(ctx context.Context, familyID string, limit, offset int) ([]Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := r.filter(func(a Assessment) bool { return a.FamilyID == familyID })
	sortNewestFirst(items)
	return page(items, limit, offset), nil
}

func (r *MemoryRepo) LatestByFamily(ctx context.Context, familyID string) (Assessment, error) {
	items, err := r.ListByFamily(ctx, familyID, 1, 0)
	if err != nil {
		return Assessment{}, err
	}
	if len(items) == 0 {
		return Assessment{}, ErrNotFound
	}
	return items[0], nil
}

func (r *MemoryRepo) LatestByMentor(ctx context.Context, mentorID string) ([]Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := r.filter(func(a Assessment) bool { return a.MentorID == mentorID })
	sortNewestFirst(items)
	seen := make(map[string]bool)
	latest := []Assessment{}
	for _, a := range items {
		if seen[a.FamilyID] {
			continue
		}
		seen[a.FamilyID] = true
		latest = append(latest, a)
	}
	sort.Slice(latest, func(i, j int) bool { return latest[i].FamilyID < latest[j].FamilyID })
	return latest, nil
}

func (r *MemoryRepo) ListAll(ctx context.Context, limit, offset int) ([]Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := r.filter(func(Assessment) bool { return true })
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return page(items, limit, offset), nil
}

func (r *MemoryRepo) UpdateScores(ctx context.Context, assessmentID string, score float64, level dignometro.PovertyLevel, dims map[dignometro.QuestionID]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[assessmentID]
	if !ok {
		return ErrNotFound
	}
	a.Score = score
	a.PovertyLevel = level
	a.DimensionScores = cloneDims(dims)
	r.assessments[assessmentID] = a
	return nil
}

func (r *MemoryRepo) SetReportKey(ctx context.Context, assessmentID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[assessmentID]
	if !ok {
		return ErrNotFound
	}
	a.ReportKey = key
	r.assessments[assessmentID] = a
	return nil
}

func (r *MemoryRepo) SaveDraft(ctx context.Context, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d.Answers = d.Answers.Clone()
	r.drafts[d.FamilyID] = d
	return nil
}

func (r *MemoryRepo) GetDraft(ctx context.Context, familyID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[familyID]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	d.Answers = d.Answers.Clone()
	return d, nil
}

func (r *MemoryRepo) filter(keep func(Assessment) bool) []Assessment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := []Assessment{}
	for _, a := range r.assessments {
		if keep(a) {
			items = append(items, a)
		}
	}
	return items
}

func sortNewestFirst(items []Assessment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func page(items []Assessment, limit, offset int) []Assessment {
	if offset >= len(items) {
		return []Assessment{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func cloneDims(dims map[dignometro.QuestionID]int) map[dignometro.QuestionID]int {
	out := make(map[dignometro.QuestionID]int, len(dims))
	for k, v := range dims {
		out[k] = v
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
