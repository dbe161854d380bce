package mentors

import (
	"context"
	"errors"
	"testing"
)

func TestServiceUpsertKeepsCreatedAt(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, Mentor{ID: "google-1", Email: "ana@example.org", FullName: "Ana"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	first, err := svc.GetByID(ctx, "google-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := svc.UpsertFromAuth(ctx, Mentor{ID: "google-1", Email: "ana@example.org", FullName: " Ana Souza "}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	second, err := svc.GetByID(ctx, "google-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.FullName != "Ana Souza" {
		t.Fatalf("expected trimmed name, got %q", second.FullName)
	}
}

func TestServiceRejectsMissingIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	err := svc.UpsertFromAuth(context.Background(), Mentor{ID: "x"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceGetUnknown(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.GetByID(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
