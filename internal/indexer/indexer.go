// Package indexer builds or loads the persisted vector index over the corpus.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/hotelrag/internal/corpus"
	"github.com/hyperjump/hotelrag/internal/embedding"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/vector"
)

// DefaultBatchSize bounds how many texts are embedded per call during a build.
const DefaultBatchSize = 32

// Meta describes the corpus a persisted index was built from. It is stored next to the
// index as <index_path>.meta.yaml.
type Meta struct {
	CorpusSize        int       `yaml:"corpus_size" json:"corpus_size"`
	CorpusFingerprint string    `yaml:"corpus_fingerprint" json:"corpus_fingerprint"`
	Dimensions        int       `yaml:"dimensions" json:"dimensions"`
	IndexType         string    `yaml:"index_type" json:"index_type"`
	BuiltAt           time.Time `yaml:"built_at" json:"built_at"`
}

// Result reports what BuildOrLoad did.
type Result struct {
	Built  bool
	Reason string
	Size   int
}

// Indexer embeds corpus documents into a vector index keyed by document position.
type Indexer struct {
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	batchSize    int
	verifyCorpus bool
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for build and load events.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithBatchSize sets the number of texts embedded per call. Values <= 0 keep the default.
func WithBatchSize(n int) IndexerOption {
	return func(idx *Indexer) {
		if n > 0 {
			idx.batchSize = n
		}
	}
}

// WithCorpusVerification enables or disables the fingerprint check on load.
func WithCorpusVerification(on bool) IndexerOption {
	return func(idx *Indexer) { idx.verifyCorpus = on }
}

// NewIndexer creates an indexer writing into vectorIndex.
func NewIndexer(embedder embedding.Embedder, vectorIndex vector.VectorIndex, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		batchSize:    DefaultBatchSize,
		verifyCorpus: true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// MetaPath returns the sidecar metadata path for an index path.
func MetaPath(indexPath string) string {
	return indexPath + ".meta.yaml"
}

// BuildOrLoad loads the index persisted at path, or builds and persists it from docs.
// With corpus verification on, an index whose sidecar disagrees with docs is rebuilt.
// An index without a sidecar is trusted.
func (idx *Indexer) BuildOrLoad(ctx context.Context, docs []models.Document, path string) (*Result, error) {
	if len(docs) == 0 {
		return nil, corpus.ErrEmpty
	}

	if err := idx.vectorIndex.Load(path); err != nil {
		idx.logger.Warn("persisted index unreadable, rebuilding", zap.String("path", path), zap.Error(err))
		return idx.build(ctx, docs, path, "persisted index unreadable")
	}
	if idx.vectorIndex.Size() == 0 {
		return idx.build(ctx, docs, path, "no persisted index")
	}

	if idx.verifyCorpus {
		if reason := idx.mismatch(docs, path); reason != "" {
			idx.logger.Warn("persisted index does not match corpus, rebuilding",
				zap.String("path", path), zap.String("reason", reason))
			return idx.build(ctx, docs, path, reason)
		}
	}

	idx.logger.Info("loaded vector index", zap.String("path", path), zap.Int("size", idx.vectorIndex.Size()))
	return &Result{Built: false, Reason: "loaded from disk", Size: idx.vectorIndex.Size()}, nil
}

// Rebuild discards any loaded vectors and builds the index from docs.
func (idx *Indexer) Rebuild(ctx context.Context, docs []models.Document, path string) (*Result, error) {
	if len(docs) == 0 {
		return nil, corpus.ErrEmpty
	}
	return idx.build(ctx, docs, path, "rebuild requested")
}

func (idx *Indexer) mismatch(docs []models.Document, path string) string {
	meta, err := ReadMeta(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			idx.logger.Debug("no index metadata, trusting persisted index", zap.String("path", path))
			return ""
		}
		idx.logger.Warn("unreadable index metadata, trusting persisted index", zap.Error(err))
		return ""
	}
	switch {
	case meta.CorpusSize != len(docs):
		return fmt.Sprintf("corpus size changed from %d to %d", meta.CorpusSize, len(docs))
	case idx.vectorIndex.Size() != len(docs):
		return fmt.Sprintf("index holds %d vectors for %d documents", idx.vectorIndex.Size(), len(docs))
	case meta.Dimensions != idx.embedder.Dimensions():
		return fmt.Sprintf("embedding dimensions changed from %d to %d", meta.Dimensions, idx.embedder.Dimensions())
	case meta.CorpusFingerprint != corpus.Fingerprint(docs):
		return "corpus fingerprint changed"
	}
	return ""
}

func (idx *Indexer) build(ctx context.Context, docs []models.Document, path, reason string) (*Result, error) {
	start := time.Now()
	if err := idx.vectorIndex.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset vector index: %w", err)
	}

	for lo := 0; lo < len(docs); lo += idx.batchSize {
		hi := lo + idx.batchSize
		if hi > len(docs) {
			hi = len(docs)
		}
		texts := make([]string, hi-lo)
		ids := make([]int64, hi-lo)
		for i, d := range docs[lo:hi] {
			texts[i] = d.Text
			ids[i] = int64(lo + i)
		}
		embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			_ = idx.vectorIndex.Reset()
			return nil, fmt.Errorf("failed to embed documents %d-%d: %w", lo, hi-1, err)
		}
		if err := idx.vectorIndex.Add(ctx, ids, embeddings); err != nil {
			_ = idx.vectorIndex.Reset()
			return nil, fmt.Errorf("failed to index vectors: %w", err)
		}
		idx.logger.Debug("embedded batch", zap.Int("from", lo), zap.Int("to", hi))
	}

	if err := idx.vectorIndex.Save(path); err != nil {
		return nil, fmt.Errorf("failed to save vector index: %w", err)
	}
	meta := &Meta{
		CorpusSize:        len(docs),
		CorpusFingerprint: corpus.Fingerprint(docs),
		Dimensions:        idx.embedder.Dimensions(),
		IndexType:         idx.vectorIndex.Type(),
		BuiltAt:           time.Now().UTC(),
	}
	if err := WriteMeta(path, meta); err != nil {
		return nil, err
	}

	idx.logger.Info("built vector index",
		zap.String("path", path),
		zap.Int("documents", len(docs)),
		zap.String("reason", reason),
		zap.Duration("took", time.Since(start)))
	return &Result{Built: true, Reason: reason, Size: idx.vectorIndex.Size()}, nil
}

// ReadMeta reads the sidecar metadata for the index at indexPath.
func ReadMeta(indexPath string) (*Meta, error) {
	data, err := os.ReadFile(MetaPath(indexPath))
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse index metadata: %w", err)
	}
	return &meta, nil
}

// WriteMeta writes the sidecar metadata for the index at indexPath.
func WriteMeta(indexPath string, meta *Meta) error {
	if indexPath == "" {
		return nil
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal index metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	if err := os.WriteFile(MetaPath(indexPath), data, 0644); err != nil {
		return fmt.Errorf("failed to write index metadata: %w", err)
	}
	return nil
}
