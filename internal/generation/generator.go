// Package generation wraps text-generation backends behind a single interface and turns
// their failures into a degraded outcome with a fixed fallback answer.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// FallbackText is returned to the user whenever generation fails.
const FallbackText = "I'm having trouble answering that right now."

// ErrNoCompletion is returned when a backend responds without any generated text choice.
var ErrNoCompletion = errors.New("no completion returned")

// Options are the decoding parameters passed to every backend.
type Options struct {
	MaxNewTokens      int
	Temperature       float64
	RepetitionPenalty float64
	// Deterministic selects greedy decoding; Temperature is then ignored.
	Deterministic bool
}

// DefaultOptions returns the parameters used for hotel questions.
func DefaultOptions() Options {
	return Options{
		MaxNewTokens:      50,
		Temperature:       0.1,
		RepetitionPenalty: 1.2,
		Deterministic:     true,
	}
}

// Generator produces a raw continuation for prompt. Implementations may or may not echo the prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	Name() string
}

// Outcome is the result of a generation attempt. A degraded outcome carries FallbackText
// and the reason generation failed.
type Outcome struct {
	Text     string
	Degraded bool
	Reason   string
}

// Run calls g and converts an error or panic into a degraded outcome.
func Run(ctx context.Context, g Generator, prompt string, opts Options) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Degraded(fmt.Errorf("generator panicked: %v", r))
		}
	}()
	text, err := g.Generate(ctx, prompt, opts)
	if err != nil {
		return Degraded(err)
	}
	return Outcome{Text: text}
}

// Degraded returns the fallback outcome for err.
func Degraded(err error) Outcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Outcome{Text: FallbackText, Degraded: true, Reason: reason}
}
