// internal/journal/journal_test.go
//
// Unit tests against go-sqlmock; no live database required.

package journal

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/vuhn/zalokit/internal/apperr"
)

func newMock(t *testing.T) (*Journal, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return NewWithDB(sqlx.NewDb(raw, "sqlmock")), mock
}

func TestRecord_InsertsDigestAndSize(t *testing.T) {
	j, mock := newMock(t)
	mock.ExpectExec("INSERT INTO webhook_event").
		WithArgs("a3f1", 128, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := j.Record(context.Background(), "a3f1", 128); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecord_FailureIsInternalKind(t *testing.T) {
	j, mock := newMock(t)
	mock.ExpectExec("INSERT INTO webhook_event").
		WillReturnError(context.DeadlineExceeded)

	err := j.Record(context.Background(), "a3f1", 128)
	if err == nil {
		t.Fatal("expected insert error")
	}
	if apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("kind = %v, want Internal", apperr.KindOf(err))
	}
}

func TestRecent_ScansEntries(t *testing.T) {
	j, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "digest", "body_bytes", "received_at"}).
		AddRow(int64(2), "beef", 64, now).
		AddRow(int64(1), "cafe", 32, now.Add(-time.Minute))
	mock.ExpectQuery("SELECT id, digest, body_bytes, received_at FROM webhook_event").
		WithArgs(10).
		WillReturnRows(rows)

	entries, err := j.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 || entries[0].Digest != "beef" || entries[1].BodyBytes != 32 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestEnsureSchema_CreatesTable(t *testing.T) {
	j, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS webhook_event").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := j.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
}
