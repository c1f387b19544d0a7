package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperjump/hotelrag/internal/models"
)

func TestExtractAnswer(t *testing.T) {
	prompt := "Context information:\nfoo\n\nQuery: q\nReply:"
	eight := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8"

	tests := []struct {
		name   string
		raw    string
		prompt string
		want   string
	}{
		{"marker", "...blah Answer: Paris", "", "Paris"},
		{"last marker wins", "Answer: first\nAnswer:  second  ", "", "second"},
		{"marker beats echo", prompt + " Answer: 12", prompt, "12"},
		{"echoed prompt", prompt + "42 nights", prompt, "42 nights"},
		{"many lines", eight, "unrelated", "l6\nl7\nl8"},
		{"six lines trimmed", "a\nb\nc\nd\n e \n f ", "", "d\n e \n f"},
		{"five lines unchanged", "a\nb\nc\nd\ne", "", "a\nb\nc\nd\ne"},
		{"raw unchanged", "  just text  ", "", "  just text  "},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAnswer(tt.raw, tt.prompt))
		})
	}
}

func TestExtractAnswer_builtPromptEcho(t *testing.T) {
	// Built prompts end with the marker, so an echoed prompt resolves through rule 1.
	p := NewBuilder(3, 200).Build("q", docs("Stay: 3 nights"), models.QueryInfo{})
	raw := p.Text + " 3 nights"
	assert.Equal(t, "3 nights", ExtractAnswer(raw, p.Text))
	assert.False(t, strings.Contains(ExtractAnswer(raw, p.Text), "Context"))
}
