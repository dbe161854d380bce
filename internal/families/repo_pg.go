package families

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const familyColumns = `id, mentor_id, responsible_name, phone, address, city, members_count, status, rejection_reason, created_at, updated_at, approved_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, family Family) error {
	const query = `
INSERT INTO families (id, mentor_id, responsible_name, phone, address, city, members_count, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		family.ID,
		family.MentorID,
		family.ResponsibleName,
		nullableString(family.Phone),
		nullableString(family.Address),
		nullableString(family.City),
		family.MembersCount,
		string(family.Status),
		family.CreatedAt,
		family.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert family: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, familyID string) (Family, error) {
	query := `SELECT ` + familyColumns + ` FROM families WHERE id = $1`
	family, err := scanFamily(r.DB.QueryRowContext(ctx, query, familyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Family{}, ErrNotFound
		}
		return Family{}, err
	}
	return family, nil
}

func (r *PGRepo) ListByMentor(ctx context.Context, mentorID string, filter ListFilter) ([]Family, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + familyColumns + ` FROM families WHERE mentor_id = $1`)
	args := []any{mentorID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	fmt.Fprintf(&sb, ` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer rows.Close()

	items := []Family{}
	for rows.Next() {
		family, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, family)
	}
	return items, rows.Err()
}

func (r *PGRepo) IDsByStatus(ctx context.Context, mentorID string, status Status) ([]string, error) {
	const query = `SELECT id FROM families WHERE mentor_id = $1 AND status = $2 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, mentorID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list family ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGRepo) UpdateContact(ctx context.Context, family Family) error {
	const query = `
UPDATE families
SET responsible_name = $2, phone = $3, address = $4, city = $5, members_count = $6, updated_at = $7
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		family.ID,
		family.ResponsibleName,
		nullableString(family.Phone),
		nullableString(family.Address),
		nullableString(family.City),
		family.MembersCount,
		family.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update family: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) TransitionStatus(ctx context.Context, familyID string, status Status, reason string, at time.Time) (Family, error) {
	query := `
UPDATE families
SET status = $2,
    rejection_reason = $3,
    approved_at = CASE WHEN $2 = 'approved' THEN $4::timestamptz ELSE approved_at END,
    updated_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING ` + familyColumns
	family, err := scanFamily(r.DB.QueryRowContext(ctx, query, familyID, string(status), nullableString(reason), at))
	if err == nil {
		return family, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Family{}, fmt.Errorf("transition family: %w", err)
	}
	// Nothing updated: either the family is gone or it already left pending.
	if _, getErr := r.Get(ctx, familyID); getErr != nil {
		return Family{}, getErr
	}
	return Family{}, ErrInvalidTransition
}

func (r *PGRepo) CountByStatus(ctx context.Context, mentorID string) (map[Status]int, error) {
	const query = `SELECT status, count(*) FROM families WHERE mentor_id = $1 GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query, mentorID)
	if err != nil {
		return nil, fmt.Errorf("count families: %w", err)
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

func scanFamily(row rowScanner) (Family, error) {
	var family Family
	var status string
	var phone, address, city, reason sql.NullString
	var approvedAt sql.NullTime
	err := row.Scan(
		&family.ID,
		&family.MentorID,
		&family.ResponsibleName,
		&phone,
		&address,
		&city,
		&family.MembersCount,
		&status,
		&reason,
		&family.CreatedAt,
		&family.UpdatedAt,
		&approvedAt,
	)
	if err != nil {
		return Family{}, err
	}
	family.Status = Status(status)
	family.Phone = phone.String
	family.Address = address.String
	family.City = city.String
	family.RejectionReason = reason.String
	if approvedAt.Valid {
		t := approvedAt.Time
		family.ApprovedAt = &t
	}
	return family, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
