package interactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/models"
)

// JSONLog mirrors the in-memory records to a JSON array file, rewriting the whole file
// after every append. Writes are serialized and go through a temp file and rename, so a
// crash mid-write leaves the previous file intact.
type JSONLog struct {
	path    string
	logger  *zap.Logger
	mu      sync.RWMutex
	records []models.InteractionRecord
	stamper *stamper
}

var _ Log = (*JSONLog)(nil)

// storedRecord accepts timestamps with or without a zone offset.
type storedRecord struct {
	models.InteractionRecord
	Timestamp string `json:"timestamp"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// NewJSONLog loads the log at path. A missing file starts an empty log. An unreadable or
// unparsable file also starts an empty log, with a warning, and is left untouched until the
// next append rewrites it.
func NewJSONLog(path string, logger *zap.Logger) *JSONLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &JSONLog{path: path, logger: logger}
	records, err := readJSONLog(path)
	switch {
	case err == nil:
		l.records = records
	case errors.Is(err, os.ErrNotExist):
	default:
		logger.Warn("failed to load interaction log, starting empty", zap.String("path", path), zap.Error(err))
	}
	l.stamper = newStamper(lastTimestamp(l.records))
	return l
}

func readJSONLog(path string) ([]models.InteractionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stored []storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse interaction log: %w", err)
	}
	records := make([]models.InteractionRecord, len(stored))
	for i, s := range stored {
		rec := s.InteractionRecord
		if s.Timestamp != "" {
			ts, err := parseTimestamp(s.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			rec.Timestamp = ts
		}
		records[i] = rec
	}
	return records, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// Append records rec and rewrites the file.
func (l *JSONLog) Append(ctx context.Context, rec *models.InteractionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stamper.stamp(rec)
	l.records = append(l.records, *rec)
	if err := l.flush(); err != nil {
		return fmt.Errorf("failed to persist interaction log: %w", err)
	}
	return nil
}

func (l *JSONLog) flush() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Records returns the last limit records, or all when limit <= 0.
func (l *JSONLog) Records(ctx context.Context, limit int) ([]models.InteractionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return tail(l.records, limit), nil
}

// Len returns the number of records.
func (l *JSONLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Path returns the file the log is mirrored to.
func (l *JSONLog) Path() string {
	return l.path
}

// Close is a no-op; every append is already on disk.
func (l *JSONLog) Close() error {
	return nil
}
