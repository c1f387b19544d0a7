package generation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// greedyTemperature stands in for zero, which the completions request omits.
const greedyTemperature = 1e-6

// OpenAIGenerator uses the OpenAI completions endpoint. The continuation does not echo the prompt.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a completions generator. baseURL overrides the API endpoint when non-empty.
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Name identifies the backend.
func (g *OpenAIGenerator) Name() string {
	return "openai:" + g.model
}

// Generate requests a completion for prompt. RepetitionPenalty maps onto frequency_penalty
// as penalty-1, so the neutral value 1 sends no penalty.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	temp := float32(opts.Temperature)
	if opts.Deterministic || temp <= 0 {
		temp = greedyTemperature
	}
	req := openai.CompletionRequest{
		Model:       g.model,
		Prompt:      prompt,
		MaxTokens:   opts.MaxNewTokens,
		Temperature: temp,
		N:           1,
	}
	if opts.RepetitionPenalty > 1 {
		req.FrequencyPenalty = float32(opts.RepetitionPenalty - 1)
	}
	resp, err := g.client.CreateCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoCompletion
	}
	return resp.Choices[0].Text, nil
}
