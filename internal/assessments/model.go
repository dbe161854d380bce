package assessments

import (
	"time"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

// Assessment is one completed Dignômetro questionnaire for a family.
type Assessment struct {
	ID              string                        `json:"id"`
	FamilyID        string                        `json:"familyId"`
	MentorID        string                        `json:"mentorId"`
	Answers         dignometro.AnswerSet          `json:"answers"`
	Score           float64                       `json:"score"`
	PovertyLevel    dignometro.PovertyLevel       `json:"povertyLevel"`
	DimensionScores map[dignometro.QuestionID]int `json:"dimensionScores"`
	ReportKey       string                        `json:"-"`
	CreatedAt       time.Time                     `json:"createdAt"`
}

// Detail is an assessment together with the recommendations derived from
// its answers under the current goal table.
type Detail struct {
	Assessment
	Recommendations []dignometro.Recommendation `json:"recommendations"`
}

// Draft is the in-progress questionnaire of a family. CurrentStep is the
// index of the next question to show, 0 through the catalog size.
type Draft struct {
	FamilyID    string               `json:"familyId"`
	MentorID    string               `json:"-"`
	Answers     dignometro.AnswerSet `json:"answers"`
	CurrentStep int                  `json:"currentStep"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Submission is returned after an assessment is stored.
type Submission struct {
	AssessmentID string    `json:"assessmentId"`
	FamilyID     string    `json:"familyId"`
	CreatedAt    time.Time `json:"createdAt"`
	dignometro.Evaluation
}

// RescoreChange records an assessment whose stored result drifted from what
// its answers produce today.
type RescoreChange struct {
	AssessmentID string                  `json:"assessmentId"`
	FromScore    float64                 `json:"fromScore"`
	ToScore      float64                 `json:"toScore"`
	FromLevel    dignometro.PovertyLevel `json:"fromLevel"`
	ToLevel      dignometro.PovertyLevel `json:"toLevel"`
}

type RescoreReport struct {
	Scanned int             `json:"scanned"`
	Updated int             `json:"updated"`
	DryRun  bool            `json:"dryRun"`
	Changes []RescoreChange `json:"changes"`
}
