// Package embedding maps text to fixed-dimension vectors for corpus indexing and query lookup.
package embedding

import "context"

// Embedder produces vector embeddings for text. Every vector it returns has Dimensions() entries.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// ONNXOptions configures NewONNXEmbedder.
type ONNXOptions struct {
	ModelPath     string
	TokenizerPath string
	// OutputName is read as [1, MaxTokens, Dimensions] and mean-pooled when it is
	// "last_hidden_state"; any other output is read as a pooled [1, Dimensions] vector.
	OutputName string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}
