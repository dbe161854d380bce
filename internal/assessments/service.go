package assessments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/metrics"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

const (
	defaultLimit     = 20
	rescoreBatchSize = 100
	reportPrefix     = "reports"
)

// FamilyLookup resolves a family visible to a mentor.
type FamilyLookup interface {
	GetOwned(ctx context.Context, mentorID, familyID string) (families.Family, error)
}

type Service struct {
	Repo      Repo
	Families  FamilyLookup
	Evaluator *dignometro.Evaluator
	// Store receives a JSON snapshot of every submitted assessment. Optional.
	Store object.ObjectStore
	Now   func() time.Time
	NewID func() string
}

func NewService(repo Repo, fams FamilyLookup, evaluator *dignometro.Evaluator, store object.ObjectStore) *Service {
	if evaluator == nil {
		evaluator = dignometro.NewEvaluator(nil)
	}
	return &Service{
		Repo:      repo,
		Families:  fams,
		Evaluator: evaluator,
		Store:     store,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

func (s *Service) Questions() []dignometro.Question {
	return dignometro.Questions()
}

// Preview evaluates answers without storing anything.
func (s *Service) Preview(answers dignometro.AnswerSet) (dignometro.Evaluation, error) {
	if err := answers.Validate(); err != nil {
		return dignometro.Evaluation{}, err
	}
	return s.Evaluator.Evaluate(answers), nil
}

// Submit evaluates and stores an assessment for an approved family.
func (s *Service) Submit(ctx context.Context, mentorID, familyID string, answers dignometro.AnswerSet) (Submission, error) {
	if err := validateSubmission(answers); err != nil {
		return Submission{}, err
	}
	family, err := s.Families.GetOwned(ctx, mentorID, familyID)
	if err != nil {
		return Submission{}, err
	}
	if family.Status != families.StatusApproved {
		return Submission{}, fmt.Errorf("%w: family is %s", ErrFamilyNotApproved, family.Status)
	}

	eval := s.Evaluator.Evaluate(answers)
	a := Assessment{
		ID:              s.NewID(),
		FamilyID:        familyID,
		MentorID:        mentorID,
		Answers:         answers.Clone(),
		Score:           eval.Score,
		PovertyLevel:    eval.PovertyLevel,
		DimensionScores: eval.DimensionScores,
		CreatedAt:       s.Now(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Submission{}, err
	}

	metrics.IncAssessmentSubmitted(string(eval.PovertyLevel))
	metrics.ObserveAssessmentScore(eval.Score)
	telemetry.Info("assessment.submitted", map[string]any{
		"assessment_id": a.ID,
		"family_id":     familyID,
		"mentor_id":     mentorID,
		"score":         eval.Score,
		"poverty_level": string(eval.PovertyLevel),
		"answered":      len(answers),
	})

	s.storeReport(ctx, a, eval)

	return Submission{
		AssessmentID: a.ID,
		FamilyID:     familyID,
		CreatedAt:    a.CreatedAt,
		Evaluation:   eval,
	}, nil
}

// storeReport writes a JSON snapshot of the assessment. Failures are logged
// and never fail the submission.
func (s *Service) storeReport(ctx context.Context, a Assessment, eval dignometro.Evaluation) {
	if s.Store == nil {
		return
	}
	payload, err := json.Marshal(Detail{Assessment: a, Recommendations: eval.Recommendations})
	if err != nil {
		telemetry.Warn("assessment.report_failed", map[string]any{"assessment_id": a.ID, "error": err})
		return
	}
	key := path.Join(reportPrefix, a.FamilyID, a.ID+".json")
	ctx = context.WithoutCancel(ctx)
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		telemetry.Warn("assessment.report_failed", map[string]any{"assessment_id": a.ID, "error": err})
		return
	}
	if err := s.Repo.SetReportKey(ctx, a.ID, key); err != nil {
		telemetry.Warn("assessment.report_failed", map[string]any{"assessment_id": a.ID, "error": err})
	}
}

func (s *Service) List(ctx context.Context, mentorID, familyID string, limit, offset int) ([]Assessment, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.Repo.ListByFamily(ctx, familyID, limit, offset)
}

func (s *Service) Latest(ctx context.Context, mentorID, familyID string) (Detail, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return Detail{}, err
	}
	a, err := s.Repo.LatestByFamily(ctx, familyID)
	if err != nil {
		return Detail{}, err
	}
	return s.detail(a), nil
}

func (s *Service) Get(ctx context.Context, mentorID, assessmentID string) (Detail, error) {
	a, err := s.Repo.Get(ctx, assessmentID)
	if err != nil {
		return Detail{}, err
	}
	if _, err := s.Families.GetOwned(ctx, mentorID, a.FamilyID); err != nil {
		if errors.Is(err, families.ErrNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return s.detail(a), nil
}

// LatestAnswers returns the answers of the family's newest assessment.
func (s *Service) LatestAnswers(ctx context.Context, mentorID, familyID string) (dignometro.AnswerSet, error) {
	detail, err := s.Latest(ctx, mentorID, familyID)
	if err != nil {
		return nil, err
	}
	return detail.Answers, nil
}

// LatestByMentor returns the newest assessment per family for the mentor.
func (s *Service) LatestByMentor(ctx context.Context, mentorID string) ([]Assessment, error) {
	return s.Repo.LatestByMentor(ctx, mentorID)
}

// SaveDraft records questionnaire progress for a family.
func (s *Service) SaveDraft(ctx context.Context, mentorID, familyID string, answers dignometro.AnswerSet, currentStep int) (Draft, error) {
	if err := answers.Validate(); err != nil {
		return Draft{}, err
	}
	if total := len(dignometro.Questions()); currentStep < 0 || currentStep > total {
		return Draft{}, &dignometro.InvalidInputError{Fields: []dignometro.FieldError{{Field: "currentStep", Issue: "out_of_range"}}}
	}
	family, err := s.Families.GetOwned(ctx, mentorID, familyID)
	if err != nil {
		return Draft{}, err
	}
	if family.Status != families.StatusApproved {
		return Draft{}, fmt.Errorf("%w: family is %s", ErrFamilyNotApproved, family.Status)
	}
	if answers == nil {
		answers = dignometro.AnswerSet{}
	}
	d := Draft{
		FamilyID:    familyID,
		MentorID:    mentorID,
		Answers:     answers.Clone(),
		CurrentStep: currentStep,
		UpdatedAt:   s.Now(),
	}
	if err := s.Repo.SaveDraft(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *Service) GetDraft(ctx context.Context, mentorID, familyID string) (Draft, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return Draft{}, err
	}
	return s.Repo.GetDraft(ctx, familyID)
}

// Rescore recomputes score, level and dimension scores of every stored
// assessment from its answers and, unless dryRun, updates drifted rows.
func (s *Service) Rescore(ctx context.Context, dryRun bool) (RescoreReport, error) {
	report := RescoreReport{DryRun: dryRun, Changes: []RescoreChange{}}
	for offset := 0; ; offset += rescoreBatchSize {
		batch, err := s.Repo.ListAll(ctx, rescoreBatchSize, offset)
		if err != nil {
			return report, fmt.Errorf("list assessments offset=%d: %w", offset, err)
		}
		for _, a := range batch {
			report.Scanned++
			res := dignometro.Score(a.Answers)
			level := dignometro.Classify(res.Score)
			if !drifted(a, res, level) {
				continue
			}
			report.Changes = append(report.Changes, RescoreChange{
				AssessmentID: a.ID,
				FromScore:    a.Score,
				ToScore:      res.Score,
				FromLevel:    a.PovertyLevel,
				ToLevel:      level,
			})
			if dryRun {
				continue
			}
			if err := s.Repo.UpdateScores(ctx, a.ID, res.Score, level, res.DimensionScores); err != nil {
				return report, fmt.Errorf("update assessment %s: %w", a.ID, err)
			}
			report.Updated++
		}
		if len(batch) < rescoreBatchSize {
			break
		}
	}
	telemetry.Info("assessment.rescore", map[string]any{
		"scanned": report.Scanned,
		"drifted": len(report.Changes),
		"updated": report.Updated,
		"dry_run": dryRun,
	})
	return report, nil
}

func (s *Service) detail(a Assessment) Detail {
	return Detail{
		Assessment:      a,
		Recommendations: s.Evaluator.Evaluate(a.Answers).Recommendations,
	}
}

func drifted(a Assessment, res dignometro.Result, level dignometro.PovertyLevel) bool {
	if math.Abs(a.Score-res.Score) > 1e-9 || a.PovertyLevel != level {
		return true
	}
	if len(a.DimensionScores) != len(res.DimensionScores) {
		return true
	}
	for id, v := range res.DimensionScores {
		if stored, ok := a.DimensionScores[id]; !ok || stored != v {
			return true
		}
	}
	return false
}

func validateSubmission(answers dignometro.AnswerSet) error {
	if len(answers) == 0 {
		return &dignometro.InvalidInputError{Fields: []dignometro.FieldError{{Field: "answers", Issue: "required"}}}
	}
	return answers.Validate()
}
