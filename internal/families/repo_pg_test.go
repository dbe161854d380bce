package families

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var familyRowColumns = []string{
	"id", "mentor_id", "responsible_name", "phone", "address", "city",
	"members_count", "status", "rejection_reason", "created_at", "updated_at", "approved_at",
}

func familyRow(id, status string, approvedAt any) []driver.Value {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, "mentor-1", "Maria", nil, nil, "Recife", 3, status, nil, created, created, approvedAt}
}

func TestPGRepoTransitionStatusApproves(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	at := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE families").
		WithArgs("fam-1", "approved", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(familyRowColumns).AddRow(familyRow("fam-1", "approved", at)...))

	repo := &PGRepo{DB: db}
	family, err := repo.TransitionStatus(context.Background(), "fam-1", StatusApproved, "", at)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if family.Status != StatusApproved || family.ApprovedAt == nil || !family.ApprovedAt.Equal(at) {
		t.Fatalf("unexpected family: %+v", family)
	}
	if family.City != "Recife" || family.Phone != "" {
		t.Fatalf("unexpected contact fields: %+v", family)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoTransitionStatusNotPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("UPDATE families").
		WithArgs("fam-1", "approved", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(familyRowColumns))
	mock.ExpectQuery("SELECT (.+) FROM families WHERE id").
		WithArgs("fam-1").
		WillReturnRows(sqlmock.NewRows(familyRowColumns).AddRow(familyRow("fam-1", "rejected", nil)...))

	mock.ExpectQuery("UPDATE families").
		WithArgs("missing", "approved", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(familyRowColumns))
	mock.ExpectQuery("SELECT (.+) FROM families WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(familyRowColumns))

	repo := &PGRepo{DB: db}
	_, err = repo.TransitionStatus(context.Background(), "fam-1", StatusApproved, "", time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	_, err = repo.TransitionStatus(context.Background(), "missing", StatusApproved, "", time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByMentorWithStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`FROM families WHERE mentor_id = \$1 AND status = \$2 ORDER BY created_at DESC, id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("mentor-1", "pending", 20, 0).
		WillReturnRows(sqlmock.NewRows(familyRowColumns).AddRow(familyRow("fam-1", "pending", nil)...))

	repo := &PGRepo{DB: db}
	items, err := repo.ListByMentor(context.Background(), "mentor-1", ListFilter{Status: StatusPending, Limit: 20})
	if err != nil {
		t.Fatalf("ListByMentor: %v", err)
	}
	if len(items) != 1 || items[0].ID != "fam-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT status, count").
		WithArgs("mentor-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 2).AddRow("approved", 5))

	repo := &PGRepo{DB: db}
	counts, err := repo.CountByStatus(context.Background(), "mentor-1")
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[StatusPending] != 2 || counts[StatusApproved] != 5 || counts[StatusRejected] != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
