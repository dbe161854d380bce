package mentors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, mentor Mentor) error {
	const query = `
INSERT INTO mentors (id, email, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		mentor.ID,
		mentor.Email,
		nullableString(mentor.FullName),
		nullableString(mentor.PictureURL),
	)
	if err != nil {
		return fmt.Errorf("upsert mentor: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, mentorID string) (Mentor, error) {
	const query = `
SELECT id, email, full_name, picture_url, created_at, updated_at
FROM mentors
WHERE id = $1`
	var mentor Mentor
	var fullName sql.NullString
	var pictureURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, mentorID).Scan(
		&mentor.ID,
		&mentor.Email,
		&fullName,
		&pictureURL,
		&mentor.CreatedAt,
		&mentor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Mentor{}, ErrNotFound
		}
		return Mentor{}, err
	}
	mentor.FullName = fullName.String
	mentor.PictureURL = pictureURL.String
	return mentor, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
