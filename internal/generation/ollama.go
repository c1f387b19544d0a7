package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ollama defaults.
const (
	DefaultOllamaURL     = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.2"
	DefaultOllamaTimeout = 120 * time.Second
)

// OllamaGenerator uses Ollama's /api/generate in raw mode, so the prompt is sent without a
// chat template and the response is a bare continuation.
type OllamaGenerator struct {
	client  *http.Client
	baseURL string
	model   string
}

var _ Generator = (*OllamaGenerator)(nil)

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Raw     bool          `json:"raw"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

// temperature has no omitempty: 0 means greedy decoding.
type ollamaOptions struct {
	NumPredict    int     `json:"num_predict,omitempty"`
	Temperature   float64 `json:"temperature"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	TopK          int     `json:"top_k,omitempty"`
	Seed          int     `json:"seed,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewOllamaGenerator creates an Ollama generator. Empty arguments select the defaults.
func NewOllamaGenerator(baseURL, model string, timeout time.Duration) *OllamaGenerator {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = DefaultOllamaTimeout
	}
	return &OllamaGenerator{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

// Name identifies the backend.
func (g *OllamaGenerator) Name() string {
	return "ollama:" + g.model
}

// Generate sends prompt to Ollama and returns the continuation.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	reqBody := ollamaRequest{
		Model:  g.model,
		Prompt: prompt,
		Raw:    true,
		Stream: false,
		Options: ollamaOptions{
			NumPredict:    opts.MaxNewTokens,
			Temperature:   opts.Temperature,
			RepeatPenalty: opts.RepetitionPenalty,
		},
	}
	if opts.Deterministic {
		reqBody.Options.Temperature = 0
		reqBody.Options.TopK = 1
		reqBody.Options.Seed = 42
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	if !out.Done && out.Response == "" {
		return "", ErrNoCompletion
	}
	return out.Response, nil
}
