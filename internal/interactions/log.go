// Package interactions records every processed query in an append-only log.
package interactions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/models"
)

// Log is an append-only, ordered sequence of interaction records.
type Log interface {
	// Append stamps rec with an ID and timestamp when missing and records it. On a durable-write
	// failure the record is still kept in memory and the error is returned.
	Append(ctx context.Context, rec *models.InteractionRecord) error
	// Records returns the last limit records in append order, or all of them when limit <= 0.
	Records(ctx context.Context, limit int) ([]models.InteractionRecord, error)
	Len() int
	Close() error
}

// Open returns the log backend selected by cfg.LogBackend. A SQLite log that cannot be
// opened falls back to an in-memory log with a warning.
func Open(cfg config.StorageConfig, logger *zap.Logger) (Log, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.LogBackend {
	case "json", "":
		return NewJSONLog(cfg.InteractionLogPath, logger), nil
	case "sqlite":
		l, err := NewSQLiteLog(cfg.DatabasePath)
		if err != nil {
			logger.Warn("interaction database unavailable, keeping interactions in memory only",
				zap.String("path", cfg.DatabasePath), zap.Error(err))
			return NewMemoryLog(), nil
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown interaction log backend %q (supported: json, sqlite)", cfg.LogBackend)
	}
}

// stamper assigns IDs and keeps timestamps non-decreasing across appends.
type stamper struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newStamper(last time.Time) *stamper {
	return &stamper{last: last, now: time.Now}
}

func (s *stamper) stamp(rec *models.InteractionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = s.now().UTC().Round(0)
	}
	if ts.Before(s.last) {
		ts = s.last
	}
	rec.Timestamp = ts
	s.last = ts
}

func lastTimestamp(records []models.InteractionRecord) time.Time {
	if len(records) == 0 {
		return time.Time{}
	}
	return records[len(records)-1].Timestamp
}

func tail(records []models.InteractionRecord, limit int) []models.InteractionRecord {
	if limit > 0 && limit < len(records) {
		records = records[len(records)-limit:]
	}
	out := make([]models.InteractionRecord, len(records))
	copy(out, records)
	return out
}
