// Package config provides configuration loading and structs for the hotelrag service.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Vector     VectorConfig     `yaml:"vector"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Generation GenerationConfig `yaml:"generation"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CorpusConfig points at the analysis snippet file.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig holds paths for the vector index and the interaction log.
type StorageConfig struct {
	IndexPath          string `yaml:"index_path"`
	InteractionLogPath string `yaml:"interaction_log_path"`
	// LogBackend is "json" (full rewrite per append) or "sqlite" (append-only rows).
	LogBackend   string `yaml:"log_backend"`
	DatabasePath string `yaml:"database_path"`
}

// EmbeddingConfig selects and configures the embedder.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	ModelPath string `yaml:"model_path"`
	// TokenizerPath is the model's tokenizer.json or WordPiece vocab.txt.
	TokenizerPath string `yaml:"tokenizer_path"`
	// OutputName is the ONNX output to read; "last_hidden_state" is mean-pooled over the attention mask.
	OutputName  string `yaml:"output_name"`
	Dimensions  int    `yaml:"dimensions"`
	MaxTokens   int    `yaml:"max_tokens"`
	CacheSize   int    `yaml:"cache_size"`
	BatchSize   int    `yaml:"batch_size"`
	OpenAIModel string `yaml:"openai_model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
}

// VectorConfig holds vector index settings.
type VectorConfig struct {
	IndexType string `yaml:"index_type"`
	// VerifyCorpus rebuilds a persisted index whose recorded corpus fingerprint differs.
	VerifyCorpus *bool `yaml:"verify_corpus"`
}

// VerifyCorpusOrDefault returns whether to verify the corpus fingerprint; defaults to true when unset.
func (v *VectorConfig) VerifyCorpusOrDefault() bool {
	if v.VerifyCorpus != nil {
		return *v.VerifyCorpus
	}
	return true
}

// RetrievalConfig holds retrieval and prompt context settings.
type RetrievalConfig struct {
	TopK          int `yaml:"top_k"`
	ContextDocs   int `yaml:"context_docs"`
	SnippetLength int `yaml:"snippet_length"`
}

// GenerationConfig selects the text generator and its decoding parameters.
type GenerationConfig struct {
	Provider          string  `yaml:"provider"`
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	MaxNewTokens      int     `yaml:"max_new_tokens"`
	Temperature       float64 `yaml:"temperature"`
	RepetitionPenalty float64 `yaml:"repetition_penalty"`
	Deterministic     *bool   `yaml:"deterministic"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
}

// DeterministicOrDefault returns whether decoding is greedy; defaults to true when unset.
func (g *GenerationConfig) DeterministicOrDefault() bool {
	if g.Deterministic != nil {
		return *g.Deterministic
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	expandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// LoadOrDefault loads path when it exists; otherwise it returns defaults with paths
// resolved against the working directory.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", cwdErr)
	}
	cfg = &Config{}
	ApplyDefaults(cfg)
	expandPaths(cfg, cwd)
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Storage.InteractionLogPath = expandPath(cfg.Storage.InteractionLogPath, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	if cfg.Embedding.TokenizerPath != "" {
		cfg.Embedding.TokenizerPath = expandPath(cfg.Embedding.TokenizerPath, configDir)
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
