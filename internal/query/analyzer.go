// Package query classifies user queries with deterministic keyword rules.
package query

import (
	"strings"

	"github.com/hyperjump/hotelrag/internal/models"
)

// IntentRule maps a set of keywords to an intent. A rule matches when any keyword is a
// substring of the normalized query.
type IntentRule struct {
	Intent   models.Intent
	Keywords []string
}

// Matches reports whether normalized contains any of the rule's keywords.
func (r IntentRule) Matches(normalized string) bool {
	return containsAny(normalized, r.Keywords)
}

// DefaultIntentRules is evaluated in order; the first matching rule wins.
var DefaultIntentRules = []IntentRule{
	{Intent: models.IntentCancellation, Keywords: []string{"cancel", "refund", "cancellation rate"}},
	{Intent: models.IntentBooking, Keywords: []string{"book", "reservation", "booking rate"}},
	{Intent: models.IntentStay, Keywords: []string{"stay", "duration", "night"}},
	{Intent: models.IntentAnalysis, Keywords: []string{"analysis", "statistics", "report"}},
}

var (
	questionWords = []string{"what", "how", "why", "when", "where", "who", "tell me"}
	numericTerms  = []string{"rate", "percentage", "number", "count", "how many"}
)

// Analyzer derives QueryInfo from raw queries.
type Analyzer struct {
	rules []IntentRule
}

// NewAnalyzer returns an analyzer using rules, or DefaultIntentRules when rules is empty.
func NewAnalyzer(rules ...IntentRule) *Analyzer {
	if len(rules) == 0 {
		rules = DefaultIntentRules
	}
	return &Analyzer{rules: rules}
}

// Analyze normalizes query (trim, lowercase) and classifies it.
func (a *Analyzer) Analyze(query string) models.QueryInfo {
	normalized := Normalize(query)
	return models.QueryInfo{
		OriginalQuery:           query,
		NormalizedQuery:         normalized,
		DetectedIntent:          a.DetectIntent(normalized),
		IsQuestion:              strings.HasSuffix(query, "?") || containsAny(strings.ToLower(query), questionWords),
		RequiresNumericalAnswer: containsAny(normalized, numericTerms),
	}
}

// DetectIntent returns the intent of the first rule matching normalized, or IntentNone.
func (a *Analyzer) DetectIntent(normalized string) models.Intent {
	for _, r := range a.rules {
		if r.Matches(normalized) {
			return r.Intent
		}
	}
	return models.IntentNone
}

// Normalize trims surrounding whitespace and lowercases query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
