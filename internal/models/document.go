// Package models defines core data structures for corpus documents, query analysis, and answers.
package models

// Document is one analysis snippet from the corpus. Its identity is Position, the 0-based
// index in the corpus file; vector index IDs refer to it.
type Document struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Position int                    `json:"-"`
}

// Category returns metadata["category"] as a string, or "" when absent.
func (d *Document) Category() string {
	if d.Metadata == nil {
		return ""
	}
	if c, ok := d.Metadata["category"].(string); ok {
		return c
	}
	return ""
}

// RetrievedDocument is a category-prefixed view of a corpus document returned by retrieval.
type RetrievedDocument struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Position int                    `json:"position"`
	Score    float64                `json:"score"`
}
