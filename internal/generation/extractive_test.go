package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/prompt"
)

func TestExtractiveGenerator_picksOverlappingLine(t *testing.T) {
	docs := []models.RetrievedDocument{
		{Text: "Stay: The average stay is 3.4 nights"},
		{Text: "Cancellations: The overall cancellation rate is 0.37"},
	}
	p := prompt.NewBuilder(3, 200).Build("What is the cancellation rate?", docs, models.QueryInfo{})

	raw, err := NewExtractiveGenerator().Generate(context.Background(), p.Text, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, p.Text), "output echoes the prompt")
	assert.Equal(t, "The overall cancellation rate is 0.37", prompt.ExtractAnswer(raw, p.Text))
}

func TestExtractiveGenerator_noOverlap(t *testing.T) {
	docs := []models.RetrievedDocument{{Text: "Stay: The average stay is 3.4 nights"}}
	p := prompt.NewBuilder(3, 200).Build("zebra?", docs, models.QueryInfo{})

	raw, err := NewExtractiveGenerator().Generate(context.Background(), p.Text, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "I don't know", prompt.ExtractAnswer(raw, p.Text))
}

func TestExtractiveGenerator_freeformPrompt(t *testing.T) {
	raw, err := NewExtractiveGenerator().Generate(context.Background(), "hello", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "hello\nAnswer: I don't know", raw)
}

func TestExtractiveGenerator_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractiveGenerator().Generate(ctx, "p", DefaultOptions())
	assert.Error(t, err)
}
