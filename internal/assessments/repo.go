package assessments

import (
	"context"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

type Repo interface {
	// Create stores the assessment and discards the family's draft.
	Create(ctx context.Context, a Assessment) error
	Get(ctx context.Context, assessmentID string) (Assessment, error)
	ListByFamily(ctx context.Context, familyID string, limit, offset int) ([]Assessment, error)
	LatestByFamily(ctx context.Context, familyID string) (Assessment, error)
	// LatestByMentor returns the newest assessment of every family the
	// mentor has assessed.
	LatestByMentor(ctx context.Context, mentorID string) ([]Assessment, error)
	// ListAll pages through every assessment in creation order.
	ListAll(ctx context.Context, limit, offset int) ([]Assessment, error)
	UpdateScores(ctx context.Context, assessmentID string, score float64, level dignometro.PovertyLevel, dims map[dignometro.QuestionID]int) error
	SetReportKey(ctx context.Context, assessmentID, key string) error

	SaveDraft(ctx context.Context, d Draft) error
	GetDraft(ctx context.Context, familyID string) (Draft, error)
}
