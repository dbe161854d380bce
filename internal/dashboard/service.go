package dashboard

import (
	"context"
	"fmt"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/assessments"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/goals"
)

type FamilySource interface {
	Counts(ctx context.Context, mentorID string) (map[families.Status]int, error)
	ApprovedIDs(ctx context.Context, mentorID string) ([]string, error)
}

type AssessmentSource interface {
	LatestByMentor(ctx context.Context, mentorID string) ([]assessments.Assessment, error)
}

type GoalSource interface {
	Counts(ctx context.Context, mentorID string) (map[goals.Status]int, error)
}

type LevelCount struct {
	Level dignometro.PovertyLevel `json:"level"`
	Count int                     `json:"count"`
}

// Summary is the mentor's portfolio overview. AverageScore is nil when no
// approved family has been assessed.
type Summary struct {
	Families          map[families.Status]int `json:"families"`
	TotalFamilies     int                     `json:"totalFamilies"`
	AssessedFamilies  int                     `json:"assessedFamilies"`
	LevelDistribution []LevelCount            `json:"levelDistribution"`
	AverageScore      *float64                `json:"averageScore"`
	Goals             map[goals.Status]int    `json:"goals"`
}

type Service struct {
	Families    FamilySource
	Assessments AssessmentSource
	Goals       GoalSource
}

func NewService(fams FamilySource, asm AssessmentSource, gs GoalSource) *Service {
	return &Service{Families: fams, Assessments: asm, Goals: gs}
}

// Summary aggregates family, assessment and goal figures for a mentor. The
// level distribution counts the latest assessment of each approved family
// and always lists every level, worst first.
func (s *Service) Summary(ctx context.Context, mentorID string) (Summary, error) {
	familyCounts, err := s.Families.Counts(ctx, mentorID)
	if err != nil {
		return Summary{}, fmt.Errorf("count families: %w", err)
	}
	approvedIDs, err := s.Families.ApprovedIDs(ctx, mentorID)
	if err != nil {
		return Summary{}, fmt.Errorf("list approved families: %w", err)
	}
	latest, err := s.Assessments.LatestByMentor(ctx, mentorID)
	if err != nil {
		return Summary{}, fmt.Errorf("latest assessments: %w", err)
	}
	goalCounts, err := s.Goals.Counts(ctx, mentorID)
	if err != nil {
		return Summary{}, fmt.Errorf("count goals: %w", err)
	}

	approved := make(map[string]bool, len(approvedIDs))
	for _, id := range approvedIDs {
		approved[id] = true
	}

	byLevel := make(map[dignometro.PovertyLevel]int)
	var assessed int
	var scoreSum float64
	for _, a := range latest {
		if !approved[a.FamilyID] {
			continue
		}
		level, err := dignometro.ParsePovertyLevel(string(a.PovertyLevel))
		if err != nil {
			level = dignometro.Classify(a.Score)
		}
		byLevel[level]++
		assessed++
		scoreSum += a.Score
	}

	levels := dignometro.PovertyLevels()
	distribution := make([]LevelCount, 0, len(levels))
	for _, level := range levels {
		distribution = append(distribution, LevelCount{Level: level, Count: byLevel[level]})
	}

	var total int
	for _, n := range familyCounts {
		total += n
	}

	summary := Summary{
		Families:          familyCounts,
		TotalFamilies:     total,
		AssessedFamilies:  assessed,
		LevelDistribution: distribution,
		Goals:             goalCounts,
	}
	if assessed > 0 {
		avg := scoreSum / float64(assessed)
		summary.AverageScore = &avg
	}
	return summary, nil
}
