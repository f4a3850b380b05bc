// internal/journal/journal.go
//
// Webhook delivery journal (sqlx + MySQL).
//
// Context
// -------
// Accepted deliveries are recorded for operators: a SHA-256 digest of
// the body, the body size, and the arrival time.  The journal is an
// audit surface, not a replay guard; verification never consults it and
// a write failure never rejects a delivery (the server logs and counts
// the error instead).
//
// `Open` pings the database before returning so bootstrap fails fast on
// a bad DSN.  The default driver is go-sql-driver/mysql, which also
// works with MariaDB when configured for the MySQL wire protocol.
// Callers should Close() the journal when done.

package journal

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/vuhn/zalokit/internal/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS webhook_event (
	id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	digest      CHAR(64)        NOT NULL,
	body_bytes  INT             NOT NULL,
	received_at DATETIME(3)     NOT NULL,
	KEY idx_received_at (received_at)
)`

// Entry is one accepted delivery.
type Entry struct {
	ID         int64     `db:"id"`
	Digest     string    `db:"digest"`
	BodyBytes  int       `db:"body_bytes"`
	ReceivedAt time.Time `db:"received_at"`
}

// Journal persists accepted webhook deliveries.  Safe for concurrent
// use; *sqlx.DB pools connections internally.
type Journal struct {
	db *sqlx.DB
}

// Open connects with conservative pool sizes (15 open, 5 idle,
// 30-minute connection lifetime) and pings before returning.
func Open(dsn string) (*Journal, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, apperr.Wrap(apperr.Config, "journal dsn", err)
	}
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.Config, "journal database unreachable", err)
	}
	return &Journal{db: db}, nil
}

// NewWithDB wraps an existing pool.  Used by tests with sqlmock.
func NewWithDB(db *sqlx.DB) *Journal { return &Journal{db: db} }

// EnsureSchema creates the webhook_event table if it does not exist.
func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return apperr.Wrap(apperr.Internal, "journal schema", err)
	}
	return nil
}

// Record inserts one accepted delivery.
func (j *Journal) Record(ctx context.Context, digest string, bodyBytes int) error {
	const q = `INSERT INTO webhook_event (digest, body_bytes, received_at) VALUES (?, ?, ?)`
	if _, err := j.db.ExecContext(ctx, q, digest, bodyBytes, time.Now().UTC()); err != nil {
		return apperr.Wrap(apperr.Internal, "journal insert", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `SELECT id, digest, body_bytes, received_at FROM webhook_event ORDER BY received_at DESC LIMIT ?`
	var entries []Entry
	if err := j.db.SelectContext(ctx, &entries, q, limit); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "journal select", err)
	}
	return entries, nil
}

// Close releases the underlying pool.
func (j *Journal) Close() error { return j.db.Close() }
