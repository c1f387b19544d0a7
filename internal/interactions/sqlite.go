package interactions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/hotelrag/internal/models"
)

// SQLiteLog stores one row per interaction. Appends insert a single row instead of
// rewriting the whole log. A record whose insert fails stays in memory, is visible through
// Records and Len, and is retried before the next insert.
type SQLiteLog struct {
	db      *sql.DB
	mu      sync.Mutex
	count   atomic.Int64
	stamper *stamper
	pending []models.InteractionRecord
}

var _ Log = (*SQLiteLog)(nil)

// NewSQLiteLog opens or creates the database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteLog(dbPath string) (*SQLiteLog, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	l := &SQLiteLog{db: db, stamper: newStamper(time.Time{})}
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to read interaction count: %w", err)
	}
	l.count.Store(n)
	var last time.Time
	err = db.QueryRow(`SELECT timestamp FROM interactions ORDER BY seq DESC LIMIT 1`).Scan(&last)
	switch {
	case err == nil:
		l.stamper.last = last
	case errors.Is(err, sql.ErrNoRows):
	default:
		_ = db.Close()
		return nil, fmt.Errorf("failed to read last interaction: %w", err)
	}
	return l, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS interactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		context_snippet TEXT,
		retrieved_docs TEXT,
		query_info TEXT,
		timestamp TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp);
	`
	_, err := db.Exec(schema)
	return err
}

// Append inserts rec after any records left over from failed inserts. On failure rec is
// kept in memory and the error is returned.
func (l *SQLiteLog) Append(ctx context.Context, rec *models.InteractionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stamper.stamp(rec)
	l.pending = append(l.pending, *rec)
	for len(l.pending) > 0 {
		if err := l.insert(ctx, &l.pending[0]); err != nil {
			return err
		}
		l.pending = l.pending[1:]
		l.count.Add(1)
	}
	l.pending = nil
	return nil
}

func (l *SQLiteLog) insert(ctx context.Context, rec *models.InteractionRecord) error {
	docsJSON, err := json.Marshal(rec.RetrievedDocs)
	if err != nil {
		return fmt.Errorf("failed to marshal retrieved docs: %w", err)
	}
	infoJSON, err := json.Marshal(rec.QueryInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal query info: %w", err)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO interactions (id, query, response, context_snippet, retrieved_docs, query_info, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Response, rec.ContextSnippet, string(docsJSON), string(infoJSON), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// Records returns the last limit records in append order, or all when limit <= 0.
// Records not yet written to the database come last.
func (l *SQLiteLog) Records(ctx context.Context, limit int) ([]models.InteractionRecord, error) {
	l.mu.Lock()
	pending := append([]models.InteractionRecord(nil), l.pending...)
	l.mu.Unlock()

	// Newest first so LIMIT keeps the tail; reversed below.
	query := `SELECT id, query, response, context_snippet, retrieved_docs, query_info, timestamp
		FROM interactions ORDER BY seq DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var out []models.InteractionRecord
	for rows.Next() {
		var rec models.InteractionRecord
		var snippet, docsJSON, infoJSON sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Response, &snippet, &docsJSON, &infoJSON, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		rec.ContextSnippet = snippet.String
		if docsJSON.Valid && docsJSON.String != "" {
			if err := json.Unmarshal([]byte(docsJSON.String), &rec.RetrievedDocs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal retrieved docs: %w", err)
			}
		}
		if infoJSON.Valid && infoJSON.String != "" {
			if err := json.Unmarshal([]byte(infoJSON.String), &rec.QueryInfo); err != nil {
				return nil, fmt.Errorf("failed to unmarshal query info: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	out = append(out, pending...)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Len returns the number of interactions, including those whose insert failed.
func (l *SQLiteLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int(l.count.Load()) + len(l.pending)
}

// Close closes the database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
