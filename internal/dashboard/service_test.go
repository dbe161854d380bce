package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/assessments"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/goals"
)

type stubFamilies struct {
	counts   map[families.Status]int
	approved []string
	err      error
}

func (s stubFamilies) Counts(context.Context, string) (map[families.Status]int, error) {
	return s.counts, s.err
}

func (s stubFamilies) ApprovedIDs(context.Context, string) ([]string, error) {
	return s.approved, s.err
}

type stubAssessments []assessments.Assessment

func (s stubAssessments) LatestByMentor(context.Context, string) ([]assessments.Assessment, error) {
	return s, nil
}

type stubGoals map[goals.Status]int

func (s stubGoals) Counts(context.Context, string) (map[goals.Status]int, error) {
	return s, nil
}

func TestSummaryAggregatesApprovedFamilies(t *testing.T) {
	now := time.Now()
	svc := NewService(
		stubFamilies{
			counts:   map[families.Status]int{families.StatusPending: 1, families.StatusApproved: 3, families.StatusRejected: 1},
			approved: []string{"fam-a", "fam-b", "fam-c"},
		},
		stubAssessments{
			{FamilyID: "fam-a", Score: 2, PovertyLevel: dignometro.LevelPoverty, CreatedAt: now},
			{FamilyID: "fam-b", Score: 9, PovertyLevel: dignometro.LevelBreakingPovertyCycle, CreatedAt: now},
			{FamilyID: "fam-c", Score: 4, PovertyLevel: "legado", CreatedAt: now},
			{FamilyID: "fam-rejected", Score: 0, PovertyLevel: dignometro.LevelExtremePoverty, CreatedAt: now},
		},
		stubGoals{goals.StatusPending: 4, goals.StatusCompleted: 2},
	)

	summary, err := svc.Summary(context.Background(), "mentor-1")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalFamilies)
	assert.Equal(t, 3, summary.AssessedFamilies)
	require.NotNil(t, summary.AverageScore)
	assert.InDelta(t, 5.0, *summary.AverageScore, 1e-9)

	assert.Equal(t, []LevelCount{
		{Level: dignometro.LevelExtremePoverty, Count: 0},
		{Level: dignometro.LevelPoverty, Count: 1},
		{Level: dignometro.LevelDignity, Count: 1},
		{Level: dignometro.LevelDevelopingProsperity, Count: 0},
		{Level: dignometro.LevelBreakingPovertyCycle, Count: 1},
	}, summary.LevelDistribution)
	assert.Equal(t, 2, summary.Goals[goals.StatusCompleted])
}

func TestSummaryEmptyPortfolio(t *testing.T) {
	svc := NewService(stubFamilies{counts: map[families.Status]int{}}, stubAssessments{}, stubGoals{})
	summary, err := svc.Summary(context.Background(), "mentor-1")
	require.NoError(t, err)
	assert.Nil(t, summary.AverageScore)
	assert.Len(t, summary.LevelDistribution, 5)
	for _, lc := range summary.LevelDistribution {
		assert.Zero(t, lc.Count)
	}
}

func TestSummaryPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(stubFamilies{err: boom}, stubAssessments{}, stubGoals{})
	_, err := svc.Summary(context.Background(), "mentor-1")
	assert.ErrorIs(t, err, boom)
}
