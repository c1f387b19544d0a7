package generation

import (
	"context"
	"strings"
	"unicode"
)

const (
	contextHeader = "Context information:\n"
	instructions  = "\n\nInstructions:"
	queryLabel    = "\nQuery: "
	answerCue     = "Answer:"
	unknownAnswer = "I don't know"
)

// ExtractiveGenerator is a model-free backend for offline runs. It echoes the prompt and
// continues with the context line sharing the most words with the query.
type ExtractiveGenerator struct{}

var _ Generator = (*ExtractiveGenerator)(nil)

// NewExtractiveGenerator returns an extractive generator.
func NewExtractiveGenerator() *ExtractiveGenerator {
	return &ExtractiveGenerator{}
}

// Name identifies the backend.
func (g *ExtractiveGenerator) Name() string {
	return "extractive"
}

// Generate returns prompt followed by the best-matching context line. Lines are stripped
// of their "Category: " prefix. With no overlapping line the answer is "I don't know".
func (g *ExtractiveGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lines, query := parsePrompt(prompt)
	qwords := wordSet(query)

	best, bestScore := unknownAnswer, 0
	for _, line := range lines {
		score := 0
		for w := range wordSet(line) {
			if qwords[w] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = stripCategory(line), score
		}
	}

	sep := " "
	if !strings.HasSuffix(prompt, answerCue) {
		sep = "\n" + answerCue + " "
	}
	return prompt + sep + best, nil
}

// parsePrompt returns the non-empty context lines and the query of a built prompt.
func parsePrompt(prompt string) (lines []string, query string) {
	if i := strings.Index(prompt, contextHeader); i >= 0 {
		rest := prompt[i+len(contextHeader):]
		if j := strings.Index(rest, instructions); j >= 0 {
			rest = rest[:j]
		}
		for _, l := range strings.Split(rest, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}
	if i := strings.LastIndex(prompt, queryLabel); i >= 0 {
		query = prompt[i+len(queryLabel):]
		if j := strings.Index(query, "\n"); j >= 0 {
			query = query[:j]
		}
	}
	return lines, query
}

func stripCategory(line string) string {
	if i := strings.Index(line, ": "); i > 0 {
		return line[i+2:]
	}
	return line
}

// wordSet returns the lowercased words of s longer than two letters.
func wordSet(s string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if len([]rune(w)) > 2 {
			set[w] = true
		}
	}
	return set
}
