package mailbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver used by SQLStore.
const DriverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id TEXT NOT NULL REFERENCES subjects(id),
		is_read    INTEGER NOT NULL DEFAULT 0,
		trashed    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id TEXT NOT NULL REFERENCES subjects(id),
		box        TEXT NOT NULL,
		is_read    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_subject ON notifications(subject_id)`,
	`CREATE INDEX IF NOT EXISTS receipts_subject_box ON receipts(subject_id, box)`,
}

// SQLStore is a Store backed by SQLite.
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQL opens the SQLite database at dsn and creates the schema when missing.
// Use ":memory:" for a throwaway database.
func OpenSQL(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps in-memory databases shared.
	db.SetMaxOpenConns(1)

	s := &SQLStore{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("mailbox database opened", "dsn", dsn)

	return s, nil
}

// Migrate creates the tables and indexes used by the store.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// AddSubject inserts or replaces a subject.
func (s *SQLStore) AddSubject(ctx context.Context, subj Subject) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO subjects (id, name, kind) VALUES (:id, :name, :kind)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, kind = excluded.kind`, subj)
	if err != nil {
		return fmt.Errorf("failed to save subject %q: %w", subj.ID, err)
	}
	return nil
}

// Notify adds a notification for the subject.
func (s *SQLStore) Notify(ctx context.Context, subjectID string, read, trashed bool) error {
	if _, err := s.Subject(ctx, subjectID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (subject_id, is_read, trashed) VALUES (?, ?, ?)",
		subjectID, read, trashed)
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	return nil
}

// Deliver puts a message in a box of the subject.
func (s *SQLStore) Deliver(ctx context.Context, subjectID string, box Box, read bool) error {
	if !box.Valid() {
		return fmt.Errorf("unknown box %q", box)
	}

	if _, err := s.Subject(ctx, subjectID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO receipts (subject_id, box, is_read) VALUES (?, ?, ?)",
		subjectID, string(box), read)
	if err != nil {
		return fmt.Errorf("failed to deliver message: %w", err)
	}
	return nil
}

// Subject implements Store.
func (s *SQLStore) Subject(ctx context.Context, id string) (*Subject, error) {
	var subj Subject
	err := s.db.GetContext(ctx, &subj, "SELECT id, name, kind FROM subjects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subject %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subject %q: %w", id, err)
	}

	return &subj, nil
}

// UnreadNotifications implements Store.
func (s *SQLStore) UnreadNotifications(ctx context.Context, subjectID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM notifications WHERE subject_id = ? AND is_read = 0 AND trashed = 0",
		subjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context, subjectID string, box Box, unreadOnly bool) (int, error) {
	if !box.Valid() {
		return 0, fmt.Errorf("unknown box %q", box)
	}

	query := "SELECT COUNT(*) FROM receipts WHERE subject_id = ? AND box = ?"
	if unreadOnly {
		query += " AND is_read = 0"
	}

	var n int
	if err := s.db.GetContext(ctx, &n, query, subjectID, string(box)); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", box, err)
	}
	return n, nil
}

// Ping implements Store.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
