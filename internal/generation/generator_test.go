package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	text  string
	err   error
	panic bool
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if s.panic {
		panic("model crashed")
	}
	return s.text, s.err
}

func (s *stubGenerator) Name() string { return "stub" }

func TestRun_ok(t *testing.T) {
	out := Run(context.Background(), &stubGenerator{text: "Answer: 42"}, "p", DefaultOptions())
	assert.False(t, out.Degraded)
	assert.Equal(t, "Answer: 42", out.Text)
	assert.Empty(t, out.Reason)
}

func TestRun_errorDegrades(t *testing.T) {
	out := Run(context.Background(), &stubGenerator{err: errors.New("connection refused")}, "p", DefaultOptions())
	assert.True(t, out.Degraded)
	assert.Equal(t, FallbackText, out.Text)
	assert.Equal(t, "connection refused", out.Reason)
}

func TestRun_panicDegrades(t *testing.T) {
	out := Run(context.Background(), &stubGenerator{panic: true}, "p", DefaultOptions())
	assert.True(t, out.Degraded)
	assert.Equal(t, FallbackText, out.Text)
	assert.Contains(t, out.Reason, "model crashed")
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 50, o.MaxNewTokens)
	assert.Equal(t, 0.1, o.Temperature)
	assert.Equal(t, 1.2, o.RepetitionPenalty)
	assert.True(t, o.Deterministic)
}

func TestFallbackText(t *testing.T) {
	assert.Equal(t, "I'm having trouble answering that right now.", FallbackText)
}
