package generation

import (
	"fmt"
	"os"
	"time"

	"github.com/hyperjump/hotelrag/internal/config"
)

// NewGenerator creates the backend selected by cfg.Provider ("openai", "ollama" or "extractive").
func NewGenerator(cfg config.GenerationConfig) (Generator, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	switch cfg.Provider {
	case "openai":
		g, err := NewOpenAIGenerator(os.Getenv(cfg.APIKeyEnv), cfg.BaseURL, cfg.Model, timeout)
		if err != nil {
			return nil, fmt.Errorf("init openai generator: %w", err)
		}
		return g, nil
	case "ollama", "":
		return NewOllamaGenerator(cfg.BaseURL, cfg.Model, timeout), nil
	case "extractive":
		return NewExtractiveGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// OptionsFromConfig returns decoding options from cfg.
func OptionsFromConfig(cfg config.GenerationConfig) Options {
	return Options{
		MaxNewTokens:      cfg.MaxNewTokens,
		Temperature:       cfg.Temperature,
		RepetitionPenalty: cfg.RepetitionPenalty,
		Deterministic:     cfg.DeterministicOrDefault(),
	}
}
