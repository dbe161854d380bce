package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const goalColumns = `id, family_id, mentor_id, question_id, dimension, title, priority, status, source, progress, recommendation_key, created_at, updated_at, completed_at`

const insertGoal = `
INSERT INTO goals (id, family_id, mentor_id, question_id, dimension, title, priority, status, source, progress, recommendation_key, created_at, updated_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

type rowScanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *PGRepo) Create(ctx context.Context, g Goal) error {
	return insert(ctx, r.DB, g)
}

func (r *PGRepo) Get(ctx context.Context, goalID string) (Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	g, err := scanGoal(r.DB.QueryRowContext(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Goal{}, ErrNotFound
		}
		return Goal{}, err
	}
	return g, nil
}

func (r *PGRepo) ListByFamily(ctx context.Context, familyID string) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE family_id = $1 ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	items := []Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, g Goal) error {
	const query = `
UPDATE goals
SET title = $2, priority = $3, status = $4, progress = $5, updated_at = $6, completed_at = $7
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		g.ID,
		g.Title,
		string(g.Priority),
		string(g.Status),
		g.Progress,
		g.UpdatedAt,
		nullableTime(g.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return expectOneRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, goalID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return expectOneRow(res)
}

// AcceptRecommendations locks the family row so that concurrent accepts for
// one family see each other's inserts.
func (r *PGRepo) AcceptRecommendations(ctx context.Context, familyID string, candidates []Goal) ([]Goal, error) {
	created := []Goal{}
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var lockedID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM families WHERE id = $1 FOR UPDATE`, familyID).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock family: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `SELECT recommendation_key FROM goals WHERE family_id = $1 AND recommendation_key IS NOT NULL`, familyID)
		if err != nil {
			return fmt.Errorf("load accepted keys: %w", err)
		}
		existing := make(map[string]bool)
		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				rows.Close()
				return err
			}
			existing[key] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, g := range candidates {
			if existing[g.RecommendationKey] {
				continue
			}
			if err := insert(ctx, tx, g); err != nil {
				return err
			}
			existing[g.RecommendationKey] = true
			created = append(created, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PGRepo) CountByStatus(ctx context.Context, mentorID string) (map[Status]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, count(*) FROM goals WHERE mentor_id = $1 GROUP BY status`, mentorID)
	if err != nil {
		return nil, fmt.Errorf("count goals: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func insert(ctx context.Context, ex execer, g Goal) error {
	_, err := ex.ExecContext(ctx, insertGoal,
		g.ID,
		g.FamilyID,
		g.MentorID,
		nullableString(string(g.QuestionID)),
		nullableString(g.Dimension),
		g.Title,
		string(g.Priority),
		string(g.Status),
		string(g.Source),
		g.Progress,
		nullableString(g.RecommendationKey),
		g.CreatedAt,
		g.UpdatedAt,
		nullableTime(g.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func scanGoal(row rowScanner) (Goal, error) {
	var g Goal
	var questionID, dimension, key sql.NullString
	var priority, status, source string
	var completedAt sql.NullTime
	if err := row.Scan(
		&g.ID,
		&g.FamilyID,
		&g.MentorID,
		&questionID,
		&dimension,
		&g.Title,
		&priority,
		&status,
		&source,
		&g.Progress,
		&key,
		&g.CreatedAt,
		&g.UpdatedAt,
		&completedAt,
	); err != nil {
		return Goal{}, err
	}
	g.QuestionID = dignometro.QuestionID(questionID.String)
	g.Dimension = dimension.String
	g.Priority = dignometro.Priority(priority)
	g.Status = Status(status)
	g.Source = Source(source)
	g.RecommendationKey = key.String
	if completedAt.Valid {
		t := completedAt.Time
		g.CompletedAt = &t
	}
	return g, nil
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

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

var _ Repo = (*PGRepo)(nil)
