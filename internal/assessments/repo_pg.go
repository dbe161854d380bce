package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const assessmentColumns = `id, family_id, mentor_id, answers, score, poverty_level, dimension_scores, report_key, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, a Assessment) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	dims, err := json.Marshal(a.DimensionScores)
	if err != nil {
		return fmt.Errorf("marshal dimension scores: %w", err)
	}

	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const insert = `
INSERT INTO assessments (id, family_id, mentor_id, answers, score, poverty_level, dimension_scores, report_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := tx.ExecContext(ctx, insert,
			a.ID,
			a.FamilyID,
			a.MentorID,
			answers,
			a.Score,
			string(a.PovertyLevel),
			dims,
			nullableString(a.ReportKey),
			a.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert assessment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM assessment_drafts WHERE family_id = $1`, a.FamilyID); err != nil {
			return fmt.Errorf("delete draft: %w", err)
		}
		return nil
	})
}

func (r *PGRepo) Get(ctx context.Context, assessmentID string) (Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`
	a, err := scanAssessment(r.DB.QueryRowContext(ctx, query, assessmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}
	return a, nil
}

func (r *PGRepo) ListByFamily(ctx context.Context, familyID string, limit, offset int) ([]Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments
WHERE family_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	return r.list(ctx, query, familyID, limit, offset)
}

func (r *PGRepo) LatestByFamily(ctx context.Context, familyID string) (Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments
WHERE family_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`
	a, err := scanAssessment(r.DB.QueryRowContext(ctx, query, familyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}
	return a, nil
}

func (r *PGRepo) LatestByMentor(ctx context.Context, mentorID string) ([]Assessment, error) {
	query := `SELECT DISTINCT ON (family_id) ` + assessmentColumns + ` FROM assessments
WHERE mentor_id = $1
ORDER BY family_id, created_at DESC, id DESC`
	return r.list(ctx, query, mentorID)
}

func (r *PGRepo) ListAll(ctx context.Context, limit, offset int) ([]Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments
ORDER BY created_at, id
LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *PGRepo) UpdateScores(ctx context.Context, assessmentID string, score float64, level dignometro.PovertyLevel, dims map[dignometro.QuestionID]int) error {
	payload, err := json.Marshal(dims)
	if err != nil {
		return fmt.Errorf("marshal dimension scores: %w", err)
	}
	const query = `UPDATE assessments SET score = $2, poverty_level = $3, dimension_scores = $4 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, assessmentID, score, string(level), payload)
	if err != nil {
		return fmt.Errorf("update assessment scores: %w", err)
	}
	return expectOneRow(res)
}

func (r *PGRepo) SetReportKey(ctx context.Context, assessmentID, key string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE assessments SET report_key = $2 WHERE id = $1`, assessmentID, key)
	if err != nil {
		return fmt.Errorf("set report key: %w", err)
	}
	return expectOneRow(res)
}

func (r *PGRepo) SaveDraft(ctx context.Context, d Draft) error {
	answers, err := json.Marshal(d.Answers)
	if err != nil {
		return fmt.Errorf("marshal draft answers: %w", err)
	}
	const query = `
INSERT INTO assessment_drafts (family_id, mentor_id, answers, current_step, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (family_id) DO UPDATE SET
  mentor_id = EXCLUDED.mentor_id,
  answers = EXCLUDED.answers,
  current_step = EXCLUDED.current_step,
  updated_at = EXCLUDED.updated_at`
	if _, err := r.DB.ExecContext(ctx, query, d.FamilyID, d.MentorID, answers, d.CurrentStep, d.UpdatedAt); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *PGRepo) GetDraft(ctx context.Context, familyID string) (Draft, error) {
	const query = `
SELECT family_id, mentor_id, answers, current_step, updated_at
FROM assessment_drafts
WHERE family_id = $1`
	var d Draft
	var answers []byte
	err := r.DB.QueryRowContext(ctx, query, familyID).Scan(&d.FamilyID, &d.MentorID, &answers, &d.CurrentStep, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrDraftNotFound
		}
		return Draft{}, err
	}
	if err := json.Unmarshal(answers, &d.Answers); err != nil {
		return Draft{}, fmt.Errorf("decode draft answers: %w", err)
	}
	return d, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Assessment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	items := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func scanAssessment(row rowScanner) (Assessment, error) {
	var a Assessment
	var answers, dims []byte
	var level string
	var reportKey sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.FamilyID,
		&a.MentorID,
		&answers,
		&a.Score,
		&level,
		&dims,
		&reportKey,
		&a.CreatedAt,
	); err != nil {
		return Assessment{}, err
	}
	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return Assessment{}, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(dims, &a.DimensionScores); err != nil {
		return Assessment{}, fmt.Errorf("decode dimension scores: %w", err)
	}
	a.PovertyLevel = dignometro.PovertyLevel(level)
	a.ReportKey = reportKey.String
	return a, nil
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
