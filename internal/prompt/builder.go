// Package prompt assembles generation prompts from retrieved context and extracts
// answers from raw model output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

const (
	// DefaultContextDocs is how many retrieved documents enter the prompt.
	DefaultContextDocs = 3
	// DefaultSnippetLength is the rune length of the context snippet kept for auditing.
	DefaultSnippetLength = 200

	// AnswerMarker cues the model to answer and delimits the answer in raw output.
	AnswerMarker = "Answer:"

	template = "Context information:\n%s\n\nInstructions:\n%s" +
		"1. You are an AI assistant that answers questions based strictly on the context above.\n" +
		"2. If the query is not a question or is irrelevant to the context, say 'I don't know'.\n" +
		"3. Keep your answer concise and directly based on the context.\n\n" +
		"Query: %s\n" + AnswerMarker
)

// Prompt is a built prompt plus the context it was built from.
type Prompt struct {
	Text    string
	Context string
	// Snippet is the leading part of Context, stored with each interaction.
	Snippet string
}

// Builder builds prompts with a bounded amount of context.
type Builder struct {
	contextDocs   int
	snippetLength int
}

// NewBuilder creates a builder. Non-positive arguments select the defaults.
func NewBuilder(contextDocs, snippetLength int) *Builder {
	if contextDocs <= 0 {
		contextDocs = DefaultContextDocs
	}
	if snippetLength <= 0 {
		snippetLength = DefaultSnippetLength
	}
	return &Builder{contextDocs: contextDocs, snippetLength: snippetLength}
}

// Build joins the text of the leading retrieved documents as context, adds intent guidance
// and the fixed instructions, and ends with the query and the answer cue.
func (b *Builder) Build(query string, docs []models.RetrievedDocument, info models.QueryInfo) Prompt {
	n := len(docs)
	if n > b.contextDocs {
		n = b.contextDocs
	}
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		texts[i] = docs[i].Text
	}
	contextText := strings.Join(texts, "\n")

	return Prompt{
		Text:    fmt.Sprintf(template, contextText, Guidance(info), query),
		Context: contextText,
		Snippet: utils.Prefix(contextText, b.snippetLength),
	}
}

// Guidance returns the intent hint placed before the instructions, or "" when no intent was detected.
func Guidance(info models.QueryInfo) string {
	if info.DetectedIntent == models.IntentNone {
		return ""
	}
	g := fmt.Sprintf("The user seems to be asking about %s. ", info.DetectedIntent)
	if info.RequiresNumericalAnswer {
		g += "Try to provide specific numerical data. "
	}
	return g
}
