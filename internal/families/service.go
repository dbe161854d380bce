package families

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/metrics"
)

const (
	maxNameLength   = 200
	maxMembersCount = 50
	defaultLimit    = 20
)

type Service struct {
	Repo  Repo
	Now   func() time.Time
	NewID func() string
}

func NewService(repo Repo) *Service {
	return &Service{
		Repo:  repo,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, mentorID string, in CreateInput) (Family, error) {
	if strings.TrimSpace(mentorID) == "" {
		return Family{}, fmt.Errorf("%w: mentor id is required", ErrInvalidInput)
	}
	in.ResponsibleName = strings.TrimSpace(in.ResponsibleName)
	if in.MembersCount == 0 {
		in.MembersCount = 1
	}
	if err := validateContact(in.ResponsibleName, in.MembersCount); err != nil {
		return Family{}, err
	}

	now := s.Now()
	family := Family{
		ID:              s.NewID(),
		MentorID:        mentorID,
		ResponsibleName: in.ResponsibleName,
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		City:            strings.TrimSpace(in.City),
		MembersCount:    in.MembersCount,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, family); err != nil {
		return Family{}, err
	}
	return family, nil
}

// GetOwned returns the family only when it belongs to mentorID. Families of
// other mentors are reported as ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, mentorID, familyID string) (Family, error) {
	if strings.TrimSpace(familyID) == "" {
		return Family{}, fmt.Errorf("%w: family id is required", ErrInvalidInput)
	}
	family, err := s.Repo.Get(ctx, familyID)
	if err != nil {
		return Family{}, err
	}
	if family.MentorID != mentorID {
		return Family{}, ErrNotFound
	}
	return family, nil
}

func (s *Service) List(ctx context.Context, mentorID string, filter ListFilter) ([]Family, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Repo.ListByMentor(ctx, mentorID, filter)
}

// ApprovedIDs lists the ids of the mentor's approved families.
func (s *Service) ApprovedIDs(ctx context.Context, mentorID string) ([]string, error) {
	return s.Repo.IDsByStatus(ctx, mentorID, StatusApproved)
}

func (s *Service) Update(ctx context.Context, mentorID, familyID string, in UpdateInput) (Family, error) {
	family, err := s.GetOwned(ctx, mentorID, familyID)
	if err != nil {
		return Family{}, err
	}
	if in.ResponsibleName != nil {
		family.ResponsibleName = strings.TrimSpace(*in.ResponsibleName)
	}
	if in.Phone != nil {
		family.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		family.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		family.City = strings.TrimSpace(*in.City)
	}
	if in.MembersCount != nil {
		family.MembersCount = *in.MembersCount
	}
	if err := validateContact(family.ResponsibleName, family.MembersCount); err != nil {
		return Family{}, err
	}
	family.UpdatedAt = s.Now()
	if err := s.Repo.UpdateContact(ctx, family); err != nil {
		return Family{}, err
	}
	return family, nil
}

// Approve moves a pending family to approved. Approving an approved family
// returns it unchanged.
func (s *Service) Approve(ctx context.Context, mentorID, familyID string) (Family, error) {
	return s.transition(ctx, mentorID, familyID, StatusApproved, "")
}

// Reject moves a pending family to rejected. Rejecting a rejected family
// returns it unchanged.
func (s *Service) Reject(ctx context.Context, mentorID, familyID, reason string) (Family, error) {
	return s.transition(ctx, mentorID, familyID, StatusRejected, strings.TrimSpace(reason))
}

func (s *Service) transition(ctx context.Context, mentorID, familyID string, to Status, reason string) (Family, error) {
	family, err := s.GetOwned(ctx, mentorID, familyID)
	if err != nil {
		return Family{}, err
	}
	switch family.Status {
	case to:
		return family, nil
	case StatusPending:
	default:
		return Family{}, fmt.Errorf("%w: family is %s", ErrInvalidTransition, family.Status)
	}

	updated, err := s.Repo.TransitionStatus(ctx, familyID, to, reason, s.Now())
	if errors.Is(err, ErrInvalidTransition) {
		// Lost a race with a concurrent transition; report the winner's state.
		current, getErr := s.Repo.Get(ctx, familyID)
		if getErr != nil {
			return Family{}, getErr
		}
		if current.Status == to {
			return current, nil
		}
		return Family{}, fmt.Errorf("%w: family is %s", ErrInvalidTransition, current.Status)
	}
	if err != nil {
		return Family{}, err
	}

	switch to {
	case StatusApproved:
		metrics.IncFamilyApproved()
	case StatusRejected:
		metrics.IncFamilyRejected()
	}
	return updated, nil
}

// Counts returns the number of families per status, with every status present.
func (s *Service) Counts(ctx context.Context, mentorID string) (map[Status]int, error) {
	raw, err := s.Repo.CountByStatus(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	counts := make(map[Status]int, len(Statuses()))
	for _, status := range Statuses() {
		counts[status] = raw[status]
	}
	return counts, nil
}

func validateContact(name string, members int) error {
	if name == "" {
		return fmt.Errorf("%w: responsibleName is required", ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: responsibleName is too long", ErrInvalidInput)
	}
	if members < 1 || members > maxMembersCount {
		return fmt.Errorf("%w: membersCount must be between 1 and %d", ErrInvalidInput, maxMembersCount)
	}
	return nil
}
