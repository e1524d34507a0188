package analyses

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	createdAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO analyses (status, ticket_text)`)).
		WithArgs(StatusPending, "new ticket text").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), createdAt))

	a, err := repo.Create(context.Background(), "new ticket text")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID != 12 || a.Status != StatusPending || !a.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, status, ticket_text`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDComplete(t *testing.T) {
	repo, mock := newMockRepo(t)
	createdAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "status", "ticket_text", "emotion", "summary", "topic", "urgency_score", "error_message", "created_at",
	}).AddRow(int64(3), StatusComplete, "slow checkout", "anger", "Checkout is slow.", "Performance", 8, nil, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, status, ticket_text`)).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.Result == nil || a.Result.UrgencyScore != 8 || a.Result.Topic != "Performance" {
		t.Fatalf("unexpected result: %+v", a.Result)
	}
}

func TestPGRepoUpdateCompleteGuardsPending(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Zero rows affected means the record vanished or is already terminal;
	// both are tolerated.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE analyses`)).
		WithArgs("anger", "s", "t", 9, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateComplete(context.Background(), 5, Result{Emotion: "anger", Summary: "s", Topic: "t", UrgencyScore: 9})
	if err != nil {
		t.Fatalf("UpdateComplete: %v", err)
	}
}

func TestPGRepoUpdateFailed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`SET status = 'FAILED'`)).
		WithArgs("model unavailable", int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateFailed(context.Background(), 6, "model unavailable"); err != nil {
		t.Fatalf("UpdateFailed: %v", err)
	}
}

func TestPGRepoDeleteReportsExistence(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM analyses WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM analyses WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 7)
	if err != nil || !deleted {
		t.Fatalf("first delete = (%v, %v), want (true, nil)", deleted, err)
	}
	deleted, err = repo.Delete(context.Background(), 7)
	if err != nil || deleted {
		t.Fatalf("second delete = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestPGRepoDeleteAlerts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`WHERE status = 'COMPLETE' AND urgency_score >= $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteAlerts(context.Background(), 7)
	if err != nil {
		t.Fatalf("DeleteAlerts: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 deleted, got %d", n)
	}
}

func TestPGRepoListCompleted(t *testing.T) {
	repo, mock := newMockRepo(t)
	createdAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "status", "ticket_text", "emotion", "summary", "topic", "urgency_score", "error_message", "created_at",
	}).
		AddRow(int64(2), StatusComplete, "b", "sadness", "s2", "t2", 9, nil, createdAt).
		AddRow(int64(1), StatusComplete, "a", "anger", "s1", "t1", 8, nil, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = 'COMPLETE' AND ($1 <= 0 OR urgency_score >= $1)`)).
		WithArgs(7).
		WillReturnRows(rows)

	out, err := repo.ListCompleted(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(out) != 2 || out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("unexpected records: %+v", out)
	}
}
