package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO family_documents (id, family_id, mentor_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.FamilyID,
		doc.MentorID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageProvider,
		doc.StorageKey,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert family document: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, family_id, mentor_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at
FROM family_documents
WHERE id = $1`
	var doc Document
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.FamilyID,
		&doc.MentorID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageProvider,
		&doc.StorageKey,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) ListByFamily(ctx context.Context, familyID string, limit, offset int) ([]Document, error) {
	const query = `
SELECT id, family_id, mentor_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at
FROM family_documents
WHERE family_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, familyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list family documents: %w", err)
	}
	defer rows.Close()

	items := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.FamilyID,
			&doc.MentorID,
			&doc.FileName,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.StorageProvider,
			&doc.StorageKey,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	return items, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
