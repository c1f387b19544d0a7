package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/hotelrag/internal/config"
)

func TestNewEmbedder_mock(t *testing.T) {
	e, err := NewEmbedder(config.EmbeddingConfig{Provider: "mock", Dimensions: 12})
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, 12, e.Dimensions())
}

func TestNewEmbedder_unknown(t *testing.T) {
	_, err := NewEmbedder(config.EmbeddingConfig{Provider: "word2vec"})
	assert.Error(t, err)
}

func TestNewEmbedder_openAIRequiresKey(t *testing.T) {
	t.Setenv("HOTELRAG_TEST_EMPTY_KEY", "")
	_, err := NewEmbedder(config.EmbeddingConfig{Provider: "openai", APIKeyEnv: "HOTELRAG_TEST_EMPTY_KEY", Dimensions: 3})
	assert.Error(t, err)
}
