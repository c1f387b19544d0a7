package models

import "time"

// Result is the output of one processed message.
type Result struct {
	Response       string              `json:"response"`
	RetrievedDocs  []RetrievedDocument `json:"retrieved_docs"`
	ContextSnippet string              `json:"context_snippet"`
	QueryInfo      QueryInfo           `json:"query_info"`
	// RawResponse is the extracted answer before post-processing, kept for diagnostics.
	RawResponse string `json:"raw_response,omitempty"`
	// Degraded is set when generation failed and the fallback answer was used.
	Degraded bool `json:"degraded,omitempty"`
}

// InteractionRecord is one entry of the interaction log. Records are never mutated once appended.
type InteractionRecord struct {
	ID             string              `json:"id,omitempty"`
	Query          string              `json:"query"`
	Response       string              `json:"response"`
	ContextSnippet string              `json:"context_snippet"`
	RetrievedDocs  []RetrievedDocument `json:"retrieved_docs"`
	QueryInfo      QueryInfo           `json:"query_info"`
	Timestamp      time.Time           `json:"timestamp"`
}
