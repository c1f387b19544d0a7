// Package retrieval turns a query into ranked, category-prefixed corpus snippets.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperjump/hotelrag/internal/embedding"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/vector"
)

// DefaultTopK is the number of documents retrieved when the caller passes k <= 0.
const DefaultTopK = 5

// Retriever embeds queries and searches the vector index built over docs.
type Retriever struct {
	embedder embedding.Embedder
	index    vector.VectorIndex
	docs     []models.Document
	logger   *zap.Logger
}

// NewRetriever creates a retriever. docs must be the corpus the index was built from.
func NewRetriever(embedder embedding.Embedder, index vector.VectorIndex, docs []models.Document, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		docs:     docs,
		logger:   logger,
	}
}

// Retrieve returns up to topK documents in index ranking order. Hits whose position falls
// outside the corpus are skipped. Embedding and search errors are returned unchanged in meaning.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievedDocument, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	qvec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	hits, err := r.index.Search(ctx, qvec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	// Casers hold state and are not shared across goroutines.
	title := cases.Title(language.English)
	out := make([]models.RetrievedDocument, 0, len(hits))
	for _, h := range hits {
		if h.ID < 0 || h.ID >= int64(len(r.docs)) {
			r.logger.Debug("skipping out-of-range index hit", zap.Int64("id", h.ID), zap.Int("corpus_size", len(r.docs)))
			continue
		}
		doc := &r.docs[h.ID]
		out = append(out, models.RetrievedDocument{
			Text:     titleCategory(title, doc.Category()) + ": " + doc.Text,
			Metadata: doc.Metadata,
			Position: int(h.ID),
			Score:    h.Score,
		})
	}
	return out, nil
}

// titleCategory capitalizes every underscore-separated word, so "hotel_bookings" becomes
// "Hotel_Bookings".
func titleCategory(title cases.Caser, category string) string {
	parts := strings.Split(category, "_")
	for i, p := range parts {
		parts[i] = title.String(p)
	}
	return strings.Join(parts, "_")
}

// CorpusSize returns the number of documents the retriever maps hits onto.
func (r *Retriever) CorpusSize() int {
	return len(r.docs)
}
