package interactions

import (
	"context"
	"sync"
	"time"

	"github.com/hyperjump/hotelrag/internal/models"
)

// MemoryLog keeps records in memory only. It backs tests and the fallback when no
// durable store can be opened.
type MemoryLog struct {
	mu      sync.RWMutex
	records []models.InteractionRecord
	stamper *stamper
}

var _ Log = (*MemoryLog)(nil)

// NewMemoryLog returns an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{stamper: newStamper(time.Time{})}
}

// Append records rec.
func (l *MemoryLog) Append(ctx context.Context, rec *models.InteractionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stamper.stamp(rec)
	l.records = append(l.records, *rec)
	return nil
}

// Records returns the last limit records, or all when limit <= 0.
func (l *MemoryLog) Records(ctx context.Context, limit int) ([]models.InteractionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return tail(l.records, limit), nil
}

// Len returns the number of records.
func (l *MemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Close is a no-op.
func (l *MemoryLog) Close() error {
	return nil
}
