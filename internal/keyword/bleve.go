// Package keyword provides an in-memory Bleve index over the corpus for direct
// keyword lookup of analysis snippets.
package keyword

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/hotelrag/internal/models"
)

// SearchOptions are optional parameters for corpus search. Nil means use defaults.
type SearchOptions struct {
	// CategoryBoost multiplies the score contribution from category matches. Use 1.0 for no boost.
	CategoryBoost float64
	// FuzzyEnabled enables fuzzy term matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance for fuzzy matching (1 or 2). Default 1.
	Fuzziness int
}

// Hit is a single keyword search hit.
type Hit struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Text     string  `json:"text"`
}

// indexedDoc is the Bleve document for one corpus entry.
type indexedDoc struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// CorpusIndex is an in-memory keyword index over corpus documents.
type CorpusIndex struct {
	index bleve.Index
	docs  []models.Document
}

// NewCorpusIndex indexes docs by position into a memory-only Bleve index.
func NewCorpusIndex(docs []models.Document) (*CorpusIndex, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so "cancellation" only matches itself.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	docMapping.AddFieldMappingsAt("category", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}

	batch := index.NewBatch()
	for i := range docs {
		d := &docs[i]
		// Underscores as spaces so "booking_trends" is searchable as two words.
		category := strings.ReplaceAll(d.Category(), "_", " ")
		if err := batch.Index(strconv.Itoa(i), indexedDoc{Text: d.Text, Category: category}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index document %d: %w", i, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to index corpus: %w", err)
	}
	return &CorpusIndex{index: index, docs: docs}, nil
}

// Search returns up to limit documents matching query in text or category, best first.
func (c *CorpusIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]Hit, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, nil
	}
	categoryBoost := 1.0
	fuzzy, fuzziness := false, 1
	if opts != nil {
		if opts.CategoryBoost > 0 {
			categoryBoost = opts.CategoryBoost
		}
		fuzzy = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	textQuery := buildFieldQuery(query, "text", fuzzy, fuzziness, 1.0)
	categoryQuery := buildFieldQuery(query, "category", fuzzy, fuzziness, categoryBoost)
	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(textQuery, categoryQuery))
	req.Size = limit

	results, err := c.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]Hit, 0, len(results.Hits))
	for _, h := range results.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(c.docs) {
			continue
		}
		d := &c.docs[pos]
		out = append(out, Hit{Position: pos, Score: h.Score, Category: d.Category(), Text: d.Text})
	}
	return out, nil
}

// buildFieldQuery returns a match query over field, or a disjunction of per-term fuzzy
// queries when fuzzy is set.
func buildFieldQuery(query, field string, fuzzy bool, fuzziness int, boost float64) blevequery.Query {
	terms := tokenizeQuery(query)
	if !fuzzy || len(terms) == 0 {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(field)
		mq.SetBoost(boost)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		fq.SetBoost(boost)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// tokenizeQuery splits query into lowercase terms.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// DocCount returns the number of indexed documents.
func (c *CorpusIndex) DocCount() (uint64, error) {
	return c.index.DocCount()
}

// Close releases the index.
func (c *CorpusIndex) Close() error {
	return c.index.Close()
}
