package goals

import (
	"time"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every goal status.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Source string

const (
	SourceRecommended Source = "recommended"
	SourceManual      Source = "manual"
)

// Goal is an action item a family works on with its mentor.
type Goal struct {
	ID                string                `json:"id"`
	FamilyID          string                `json:"familyId"`
	MentorID          string                `json:"-"`
	QuestionID        dignometro.QuestionID `json:"questionId,omitempty"`
	Dimension         string                `json:"dimension,omitempty"`
	Title             string                `json:"title"`
	Priority          dignometro.Priority   `json:"priority"`
	Status            Status                `json:"status"`
	Source            Source                `json:"source"`
	Progress          int                   `json:"progress"`
	RecommendationKey string                `json:"recommendationKey,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	CompletedAt       *time.Time            `json:"completedAt,omitempty"`
}

type CreateInput struct {
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	QuestionID string `json:"questionId"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title    *string `json:"title"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
	Progress *int    `json:"progress"`
}

// RecommendationItem is a derived recommendation annotated with whether the
// family already has it as a goal.
type RecommendationItem struct {
	dignometro.Recommendation
	Key      string `json:"key"`
	Accepted bool   `json:"accepted"`
	GoalID   string `json:"goalId,omitempty"`
}

type AcceptResult struct {
	Created []Goal `json:"created"`
	Skipped int    `json:"skipped"`
}
