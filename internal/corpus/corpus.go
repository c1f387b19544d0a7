// Package corpus loads the hotel-booking analysis snippets the pipeline answers from.
package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"os"

	"github.com/hyperjump/hotelrag/internal/models"
)

var (
	// ErrNotFound is returned when the corpus file does not exist.
	ErrNotFound = errors.New("corpus file not found")
	// ErrEmpty is returned when the corpus file holds no documents.
	ErrEmpty = errors.New("corpus is empty")
)

// Load reads a JSON array of {text, metadata} records from path.
// Documents are numbered 0..N-1 in file order.
func Load(path string) ([]models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var docs []models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	for i := range docs {
		docs[i].Position = i
		if docs[i].Metadata == nil {
			docs[i].Metadata = map[string]interface{}{}
		}
	}
	return docs, nil
}

// Fingerprint returns a stable hash of the corpus size, texts and categories.
// A persisted index records it so a changed corpus can be detected on load.
func Fingerprint(docs []models.Document) string {
	h := sha256.New()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(docs)))
	h.Write(n[:])
	for _, d := range docs {
		writeField(h, d.Text)
		writeField(h, d.Category())
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	_, _ = h.Write(n[:])
	_, _ = h.Write([]byte(s))
}
