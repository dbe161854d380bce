package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

// FamilyLookup resolves a family visible to a mentor.
type FamilyLookup interface {
	GetOwned(ctx context.Context, mentorID, familyID string) (families.Family, error)
}

// Service stores family documents in the object store and records them.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Families FamilyLookup
	Provider string
	Now      func() time.Time
}

func NewService(store object.ObjectStore, repo Repo, fams FamilyLookup, provider string) *Service {
	return &Service{
		Store:    store,
		Repo:     repo,
		Families: fams,
		Provider: provider,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Upload saves r for the family and records its metadata.
func (s *Service) Upload(ctx context.Context, mentorID, familyID, fileName string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return Document{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, "families/"+familyID, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}

	doc := Document{
		ID:              uuid.NewString(),
		FamilyID:        familyID,
		MentorID:        mentorID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.Provider,
		StorageKey:      storageKey,
		CreatedAt:       s.Now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(context.WithoutCancel(ctx), storageKey); delErr != nil {
			telemetry.Warn("documents.cleanup_failed", map[string]any{
				"family_id":   familyID,
				"storage_key": storageKey,
				"error":       delErr,
			})
		}
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) List(ctx context.Context, mentorID, familyID string, limit, offset int) ([]Document, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.Repo.ListByFamily(ctx, familyID, limit, offset)
}

// Open returns the document metadata and its content. The caller closes the reader.
func (s *Service) Open(ctx context.Context, mentorID, familyID, documentID string) (Document, io.ReadCloser, error) {
	if _, err := s.Families.GetOwned(ctx, mentorID, familyID); err != nil {
		return Document{}, nil, err
	}
	doc, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	if doc.FamilyID != familyID {
		return Document{}, nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open document: %w", err)
	}
	return doc, rc, nil
}
