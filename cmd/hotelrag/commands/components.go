package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/corpus"
	"github.com/hyperjump/hotelrag/internal/embedding"
	"github.com/hyperjump/hotelrag/internal/generation"
	"github.com/hyperjump/hotelrag/internal/indexer"
	"github.com/hyperjump/hotelrag/internal/interactions"
	"github.com/hyperjump/hotelrag/internal/keyword"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/pipeline"
	"github.com/hyperjump/hotelrag/internal/prompt"
	"github.com/hyperjump/hotelrag/internal/retrieval"
	"github.com/hyperjump/hotelrag/internal/vector"
)

// Components holds the initialized services. Fields beyond the index are nil when only the
// index was initialized.
type Components struct {
	Docs        []models.Document
	Embedder    embedding.Embedder
	VectorIndex vector.VectorIndex
	Indexer     *indexer.Indexer
	IndexResult *indexer.Result
	Keywords    *keyword.CorpusIndex
	Generator   generation.Generator
	Log         interactions.Log
	Pipeline    *pipeline.Pipeline
}

// Close releases all initialized components.
func (c *Components) Close() {
	if c.Log != nil {
		_ = c.Log.Close()
	}
	if c.Keywords != nil {
		_ = c.Keywords.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// initializeIndex loads the corpus and builds or loads the vector index. force rebuilds
// the index even when a valid one is persisted.
func initializeIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger, force bool) (*Components, error) {
	docs, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	c := &Components{Docs: docs}

	c.Embedder, err = embedding.NewEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	c.VectorIndex, err = newVectorIndex(cfg.Vector.IndexType, c.Embedder.Dimensions(), logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	logger.Info("vector index initialized",
		zap.String("type", c.VectorIndex.Type()),
		zap.Bool("faiss_available", vector.IsFAISSAvailable()))

	c.Indexer = indexer.NewIndexer(c.Embedder, c.VectorIndex,
		indexer.WithLogger(logger),
		indexer.WithBatchSize(cfg.Embedding.BatchSize),
		indexer.WithCorpusVerification(cfg.Vector.VerifyCorpusOrDefault()),
	)
	if force {
		c.IndexResult, err = c.Indexer.Rebuild(ctx, docs, cfg.Storage.IndexPath)
	} else {
		c.IndexResult, err = c.Indexer.BuildOrLoad(ctx, docs, cfg.Storage.IndexPath)
	}
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to prepare vector index: %w", err)
	}
	return c, nil
}

// newVectorIndex creates the configured index type, falling back to memory when it is
// unavailable (e.g. FAISS not compiled in).
func newVectorIndex(indexType string, dims int, logger *zap.Logger) (vector.VectorIndex, error) {
	idx, err := vector.NewVectorIndex(indexType, dims)
	if err == nil {
		return idx, nil
	}
	if indexType == string(vector.IndexTypeMemory) || indexType == "" {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	logger.Warn("failed to create vector index, falling back to memory",
		zap.String("requested_type", indexType), zap.Error(err))
	idx, err = vector.NewVectorIndex(string(vector.IndexTypeMemory), dims)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	return idx, nil
}

// initializeComponents wires the full question-answering pipeline.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c, err := initializeIndex(ctx, cfg, logger, false)
	if err != nil {
		return nil, err
	}

	c.Generator, err = generation.NewGenerator(cfg.Generation)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	c.Log, err = interactions.Open(cfg.Storage, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open interaction log: %w", err)
	}

	c.Keywords, err = keyword.NewCorpusIndex(c.Docs)
	if err != nil {
		logger.Warn("corpus keyword index unavailable", zap.Error(err))
		c.Keywords = nil
	}

	retriever := retrieval.NewRetriever(c.Embedder, c.VectorIndex, c.Docs, logger)
	c.Pipeline = pipeline.New(retriever, c.Generator, c.Log,
		pipeline.WithLogger(logger),
		pipeline.WithTopK(cfg.Retrieval.TopK),
		pipeline.WithGenerationOptions(generation.OptionsFromConfig(cfg.Generation)),
		pipeline.WithPromptBuilder(prompt.NewBuilder(cfg.Retrieval.ContextDocs, cfg.Retrieval.SnippetLength)),
	)
	logger.Info("pipeline ready",
		zap.Int("documents", len(c.Docs)),
		zap.String("embedder", cfg.Embedding.Provider),
		zap.String("generator", c.Generator.Name()),
		zap.String("log_backend", cfg.Storage.LogBackend))
	return c, nil
}
