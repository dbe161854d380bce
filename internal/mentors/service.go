package mentors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth records the identity returned by the OAuth provider.
func (s *Service) UpsertFromAuth(ctx context.Context, mentor Mentor) error {
	if s == nil || s.Repo == nil {
		return errors.New("mentors service not configured")
	}
	mentor.ID = strings.TrimSpace(mentor.ID)
	mentor.Email = strings.TrimSpace(mentor.Email)
	if mentor.ID == "" || mentor.Email == "" {
		return fmt.Errorf("%w: id and email are required", ErrInvalidInput)
	}
	mentor.FullName = strings.TrimSpace(mentor.FullName)
	mentor.PictureURL = strings.TrimSpace(mentor.PictureURL)
	return s.Repo.Upsert(ctx, mentor)
}

func (s *Service) GetByID(ctx context.Context, mentorID string) (Mentor, error) {
	if s == nil || s.Repo == nil {
		return Mentor{}, errors.New("mentors service not configured")
	}
	if strings.TrimSpace(mentorID) == "" {
		return Mentor{}, fmt.Errorf("%w: mentor id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, mentorID)
}
