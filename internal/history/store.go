// Package history keeps a SQLite log of generated contexts so users can see
// what they assembled recently and from which directory.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/ctxgen/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Record describes one generated context
type Record struct {
	ID          string    `json:"id"`
	Root        string    `json:"root"`
	Paths       []string  `json:"paths"`
	FileCount   int       `json:"file_count"`
	FailedCount int       `json:"failed_count"`
	Bytes       int       `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRecord summarizes assembled entries into a Record with a fresh ID.
func NewRecord(root string, entries []models.ContextEntry) *Record {
	rec := &Record{
		ID:        uuid.NewString(),
		Root:      root,
		Paths:     make([]string, 0, len(entries)),
		FileCount: len(entries),
		CreatedAt: time.Now().UTC(),
	}
	for _, e := range entries {
		rec.Paths = append(rec.Paths, e.Path)
		rec.Bytes += len(e.Content)
		if e.Failed() {
			rec.FailedCount++
		}
	}
	return rec
}

// Store manages the SQLite database of context records
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// pending migrations. ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must be set first so the rest wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts rec. An empty ID is replaced with a new UUID and a zero
// CreatedAt with the current time.
func (s *Store) Record(ctx context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	pathsJSON := "[]"
	if len(rec.Paths) > 0 {
		data, err := json.Marshal(rec.Paths)
		if err != nil {
			return fmt.Errorf("marshal paths: %w", err)
		}
		pathsJSON = string(data)
	}

	query := `INSERT INTO context_history
		(id, root, paths, file_count, failed_count, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Root,
		pathsJSON,
		rec.FileCount,
		rec.FailedCount,
		rec.Bytes,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert context record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	query := `SELECT id, root, paths, file_count, failed_count, bytes, created_at
		FROM context_history
		ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context history: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec := &Record{}
		var pathsJSON sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Root,
			&pathsJSON,
			&rec.FileCount,
			&rec.FailedCount,
			&rec.Bytes,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan context record: %w", err)
		}

		rec.Paths = []string{}
		if pathsJSON.Valid && pathsJSON.String != "" {
			if err := json.Unmarshal([]byte(pathsJSON.String), &rec.Paths); err != nil {
				return nil, fmt.Errorf("unmarshal paths for %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate context history: %w", err)
	}
	return records, nil
}

// Prune deletes all but the newest keep records and returns how many rows
// were removed. keep <= 0 disables pruning.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	query := `DELETE FROM context_history
		WHERE seq NOT IN (SELECT seq FROM context_history ORDER BY seq DESC LIMIT ?)`
	result, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("prune context history: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned rows: %w", err)
	}
	return n, nil
}

// Append records rec and then prunes the table down to keep records.
func (s *Store) Append(ctx context.Context, rec *Record, keep int) error {
	if err := s.Record(ctx, rec); err != nil {
		return err
	}
	if _, err := s.Prune(ctx, keep); err != nil {
		return err
	}
	return nil
}
