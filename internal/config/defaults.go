package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "./Data/formatted_analysis.json"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "./Data/faiss_index.index"
	}
	if cfg.Storage.InteractionLogPath == "" {
		cfg.Storage.InteractionLogPath = "./Data/local_db.json"
	}
	if cfg.Storage.LogBackend == "" {
		cfg.Storage.LogBackend = "json"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./Data/interactions.db"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" && cfg.Embedding.Provider == "onnx" {
		cfg.Embedding.ModelPath = "./Data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.TokenizerPath == "" && cfg.Embedding.Provider == "onnx" {
		cfg.Embedding.TokenizerPath = "./Data/models/tokenizer.json"
	}
	if cfg.Embedding.OutputName == "" && cfg.Embedding.Provider == "onnx" {
		cfg.Embedding.OutputName = "last_hidden_state"
	}
	if cfg.Embedding.Dimensions == 0 {
		if cfg.Embedding.Provider == "openai" {
			cfg.Embedding.Dimensions = 1536
		} else {
			cfg.Embedding.Dimensions = 384
		}
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Embedding.OpenAIModel == "" {
		cfg.Embedding.OpenAIModel = "text-embedding-3-small"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Vector.IndexType == "" {
		cfg.Vector.IndexType = "memory"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.ContextDocs == 0 {
		cfg.Retrieval.ContextDocs = 3
	}
	if cfg.Retrieval.SnippetLength == 0 {
		cfg.Retrieval.SnippetLength = 200
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = "ollama"
	}
	if cfg.Generation.Model == "" {
		switch cfg.Generation.Provider {
		case "openai":
			cfg.Generation.Model = "gpt-3.5-turbo-instruct"
		case "ollama":
			cfg.Generation.Model = "llama3.2"
		}
	}
	if cfg.Generation.APIKeyEnv == "" {
		cfg.Generation.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Generation.MaxNewTokens == 0 {
		cfg.Generation.MaxNewTokens = 50
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.1
	}
	if cfg.Generation.RepetitionPenalty == 0 {
		cfg.Generation.RepetitionPenalty = 1.2
	}
	if cfg.Generation.TimeoutSecs == 0 {
		cfg.Generation.TimeoutSecs = 120
	}
	// Deterministic and VerifyCorpus default to true when unset (nil).
	if cfg.Generation.Deterministic == nil {
		t := true
		cfg.Generation.Deterministic = &t
	}
	if cfg.Vector.VerifyCorpus == nil {
		t := true
		cfg.Vector.VerifyCorpus = &t
	}
}
