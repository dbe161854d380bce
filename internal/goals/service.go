package goals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/metrics"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

const maxTitleLength = 300

// FamilyLookup resolves a family visible to a mentor.
type FamilyLookup interface {
	GetOwned(ctx context.Context, mentorID, familyID string) (families.Family, error)
}

// AnswerSource returns the answers of a family's latest assessment, or
// ErrNoAssessment.
type AnswerSource interface {
	LatestAnswers(ctx context.Context, mentorID, familyID string) (dignometro.AnswerSet, error)
}

type Service struct {
	Repo     Repo
	Families FamilyLookup
	Answers  AnswerSource
	Table    *dignometro.GoalTable
	Now      func() time.Time
	NewID    func() string
}

func NewService(repo Repo, fams FamilyLookup, answers AnswerSource, table *dignometro.GoalTable) *Service {
	if table == nil {
		table = dignometro.DefaultGoalTable()
	}
	return &Service{
		Repo:     repo,
		Families: fams,
		Answers:  answers,
		Table:    table,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context, mentorID, familyID string) ([]Goal, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return nil, err
	}
	return s.Repo.ListByFamily(ctx, familyID)
}

// Create adds a manual goal to the family.
func (s *Service) Create(ctx context.Context, mentorID, familyID string, in CreateInput) (Goal, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return Goal{}, err
	}
	priority, err := parsePriority(in.Priority)
	if err != nil {
		return Goal{}, err
	}
	var questionID dignometro.QuestionID
	if raw := strings.TrimSpace(in.QuestionID); raw != "" {
		questionID = dignometro.QuestionID(raw)
		if !questionID.Known() {
			return Goal{}, fmt.Errorf("%w: unknown questionId %q", ErrInvalidInput, raw)
		}
	}
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return Goal{}, err
	}

	now := s.Now()
	g := Goal{
		ID:         s.NewID(),
		FamilyID:   familyID,
		MentorID:   mentorID,
		QuestionID: questionID,
		Dimension:  questionID.Dimension(),
		Title:      title,
		Priority:   priority,
		Status:     StatusPending,
		Source:     SourceManual,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// Update applies a partial change. Completing a goal sets progress to 100
// and stamps CompletedAt; leaving completed clears the stamp.
func (s *Service) Update(ctx context.Context, mentorID, goalID string, in UpdateInput) (Goal, error) {
	g, err := s.getOwned(ctx, mentorID, goalID)
	if err != nil {
		return Goal{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validateTitle(title); err != nil {
			return Goal{}, err
		}
		g.Title = title
	}
	if in.Priority != nil {
		priority, err := parsePriority(*in.Priority)
		if err != nil {
			return Goal{}, err
		}
		g.Priority = priority
	}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return Goal{}, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
		}
		g.Progress = *in.Progress
	}
	if in.Status != nil {
		status := Status(strings.TrimSpace(*in.Status))
		if !status.Valid() {
			return Goal{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		g.Status = status
	}

	now := s.Now()
	if g.Status == StatusCompleted {
		g.Progress = 100
		if g.CompletedAt == nil {
			g.CompletedAt = &now
		}
	} else {
		g.CompletedAt = nil
	}
	g.UpdatedAt = now
	if err := s.Repo.Update(ctx, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

func (s *Service) Delete(ctx context.Context, mentorID, goalID string) error {
	if _, err := s.getOwned(ctx, mentorID, goalID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, goalID)
}

// Recommendations derives the goals suggested by the family's latest
// assessment and marks the ones already accepted.
func (s *Service) Recommendations(ctx context.Context, mentorID, familyID string) ([]RecommendationItem, error) {
	recs, err := s.derive(ctx, mentorID, familyID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Repo.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]string, len(existing))
	for _, g := range existing {
		if g.RecommendationKey != "" {
			byKey[g.RecommendationKey] = g.ID
		}
	}

	items := make([]RecommendationItem, 0, len(recs))
	for _, rec := range recs {
		key := rec.Key()
		goalID, accepted := byKey[key]
		items = append(items, RecommendationItem{
			Recommendation: rec,
			Key:            key,
			Accepted:       accepted,
			GoalID:         goalID,
		})
	}
	return items, nil
}

// AcceptRecommendations turns recommendations into goals. An empty keys list
// accepts every recommendation. Already accepted keys are skipped, so the
// call is idempotent.
func (s *Service) AcceptRecommendations(ctx context.Context, mentorID, familyID string, keys []string) (AcceptResult, error) {
	recs, err := s.derive(ctx, mentorID, familyID)
	if err != nil {
		return AcceptResult{}, err
	}
	byKey := make(map[string]dignometro.Recommendation, len(recs))
	for _, rec := range recs {
		byKey[rec.Key()] = rec
	}

	var selected []dignometro.Recommendation
	if len(keys) == 0 {
		selected = recs
	} else {
		seen := make(map[string]bool, len(keys))
		var unknown []string
		for _, raw := range keys {
			key := strings.TrimSpace(raw)
			if seen[key] {
				continue
			}
			seen[key] = true
			rec, ok := byKey[key]
			if !ok {
				unknown = append(unknown, key)
				continue
			}
			selected = append(selected, rec)
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return AcceptResult{}, fmt.Errorf("%w: unknown recommendation keys %s", ErrInvalidInput, strings.Join(unknown, ", "))
		}
	}

	now := s.Now()
	candidates := make([]Goal, 0, len(selected))
	for _, rec := range selected {
		candidates = append(candidates, Goal{
			ID:                s.NewID(),
			FamilyID:          familyID,
			MentorID:          mentorID,
			QuestionID:        rec.QuestionID,
			Dimension:         rec.Dimension,
			Title:             rec.Goal,
			Priority:          rec.Priority,
			Status:            StatusPending,
			Source:            SourceRecommended,
			RecommendationKey: rec.Key(),
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	created, err := s.Repo.AcceptRecommendations(ctx, familyID, candidates)
	if err != nil {
		return AcceptResult{}, err
	}
	metrics.AddRecommendationsAccepted(len(created))
	telemetry.Info("goals.recommendations_accepted", map[string]any{
		"family_id": familyID,
		"mentor_id": mentorID,
		"requested": len(candidates),
		"created":   len(created),
	})
	return AcceptResult{Created: created, Skipped: len(candidates) - len(created)}, nil
}

// Counts returns goals per status across the mentor's families, with every
// status present.
func (s *Service) Counts(ctx context.Context, mentorID string) (map[Status]int, error) {
	raw, err := s.Repo.CountByStatus(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	counts := make(map[Status]int, len(Statuses()))
	for _, status := range Statuses() {
		counts[status] = raw[status]
	}
	return counts, nil
}

func (s *Service) derive(ctx context.Context, mentorID, familyID string) ([]dignometro.Recommendation, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return nil, err
	}
	answers, err := s.Answers.LatestAnswers(ctx, mentorID, familyID)
	if err != nil {
		return nil, err
	}
	return s.Table.Derive(answers), nil
}

func (s *Service) getOwned(ctx context.Context, mentorID, goalID string) (Goal, error) {
	g, err := s.Repo.Get(ctx, goalID)
	if err != nil {
		return Goal{}, err
	}
	if _, err := s.Families.GetOwned(ctx, mentorID, g.FamilyID); err != nil {
		if errors.Is(err, families.ErrNotFound) {
			return Goal{}, ErrNotFound
		}
		return Goal{}, err
	}
	return g, nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("%w: title is too long", ErrInvalidInput)
	}
	return nil
}

func parsePriority(raw string) (dignometro.Priority, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return dignometro.PriorityMedium, nil
	}
	priority := dignometro.Priority(raw)
	if !priority.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, raw)
	}
	return priority, nil
}
