package embedding

import (
	"fmt"
	"os"

	"github.com/hyperjump/hotelrag/internal/config"
)

// NewEmbedder creates the embedder selected by cfg.Provider ("onnx", "openai" or "mock").
func NewEmbedder(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "onnx", "":
		emb, err := NewONNXEmbedder(ONNXOptions{
			ModelPath:     cfg.ModelPath,
			TokenizerPath: cfg.TokenizerPath,
			OutputName:    cfg.OutputName,
			Dimensions:    cfg.Dimensions,
			MaxTokens:     cfg.MaxTokens,
			CacheSize:     cfg.CacheSize,
		})
		if err != nil {
			return nil, err
		}
		return emb, nil
	case "openai":
		emb, err := NewOpenAIEmbedder(os.Getenv(cfg.APIKeyEnv), cfg.BaseURL, cfg.OpenAIModel, cfg.Dimensions, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return emb, nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
