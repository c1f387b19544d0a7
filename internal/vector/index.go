// Package vector provides vector index and similarity search.
package vector

import "context"

// VectorIndex stores corpus embeddings keyed by document position and answers
// inner-product nearest-neighbor queries.
type VectorIndex interface {
	Add(ctx context.Context, ids []int64, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Reset() error
	Save(path string) error
	Load(path string) error
	Size() int
	Type() string
	Close() error
}

// VectorResult is a single vector search hit. ID is the document position.
type VectorResult struct {
	ID    int64
	Score float64 // Inner product (cosine similarity for normalized vectors)
}
