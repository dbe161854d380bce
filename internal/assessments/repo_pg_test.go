package assessments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

var assessmentRowColumns = []string{
	"id", "family_id", "mentor_id", "answers", "score", "poverty_level", "dimension_scores", "report_key", "created_at",
}

func TestPGRepoCreateClearsDraftInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	a := Assessment{
		ID:              "asm-1",
		FamilyID:        "fam-1",
		MentorID:        "mentor-1",
		Answers:         dignometro.AnswerSet{dignometro.QuestionAgua: true},
		Score:           10,
		PovertyLevel:    dignometro.LevelBreakingPovertyCycle,
		DimensionScores: map[dignometro.QuestionID]int{dignometro.QuestionAgua: 1},
		CreatedAt:       time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assessments").
		WithArgs("asm-1", "fam-1", "mentor-1", []byte(`{"agua":true}`), 10.0, "quebra de ciclo da pobreza", []byte(`{"agua":1}`), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM assessment_drafts").
		WithArgs("fam-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assessments").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Assessment{ID: "asm-1", FamilyID: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLatestByMentorDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(assessmentRowColumns).
		AddRow("asm-2", "fam-1", "mentor-1", []byte(`{"agua":false,"moradia":true}`), 5.0, "dignidade", []byte(`{"agua":0,"moradia":1}`), "reports/fam-1/asm-2.json", created).
		AddRow("asm-9", "fam-2", "mentor-1", []byte(`{}`), 0.0, "pobreza extrema", []byte(`{}`), nil, created)
	mock.ExpectQuery(`SELECT DISTINCT ON \(family_id\)`).
		WithArgs("mentor-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	items, err := repo.LatestByMentor(context.Background(), "mentor-1")
	if err != nil {
		t.Fatalf("LatestByMentor: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.PovertyLevel != dignometro.LevelDignity || first.ReportKey != "reports/fam-1/asm-2.json" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if !first.Answers[dignometro.QuestionMoradia] || first.DimensionScores[dignometro.QuestionMoradia] != 1 {
		t.Fatalf("unexpected decoded maps: %+v", first)
	}
	if items[1].ReportKey != "" {
		t.Fatalf("expected empty report key, got %q", items[1].ReportKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDraftRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	updated := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO assessment_drafts").
		WithArgs("fam-1", "mentor-1", []byte(`{"moradia":true}`), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM assessment_drafts").
		WithArgs("fam-1").
		WillReturnRows(sqlmock.NewRows([]string{"family_id", "mentor_id", "answers", "current_step", "updated_at"}).
			AddRow("fam-1", "mentor-1", []byte(`{"moradia":true}`), 1, updated))
	mock.ExpectQuery("FROM assessment_drafts").
		WithArgs("fam-2").
		WillReturnRows(sqlmock.NewRows([]string{"family_id", "mentor_id", "answers", "current_step", "updated_at"}))

	repo := &PGRepo{DB: db}
	err = repo.SaveDraft(context.Background(), Draft{
		FamilyID:    "fam-1",
		MentorID:    "mentor-1",
		Answers:     dignometro.AnswerSet{dignometro.QuestionMoradia: true},
		CurrentStep: 1,
		UpdatedAt:   updated,
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	draft, err := repo.GetDraft(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if draft.CurrentStep != 1 || !draft.Answers[dignometro.QuestionMoradia] {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if _, err := repo.GetDraft(context.Background(), "fam-2"); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateScoresMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE assessments SET score").
		WithArgs("missing", 4.0, "dignidade", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	err = repo.UpdateScores(context.Background(), "missing", 4, dignometro.LevelDignity, map[dignometro.QuestionID]int{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
