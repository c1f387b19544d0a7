package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/corpus"
	"github.com/hyperjump/hotelrag/internal/indexer"
	"github.com/hyperjump/hotelrag/internal/interactions"
	"github.com/hyperjump/hotelrag/internal/storage"
)

var statusOutput string

type statusReport struct {
	CorpusPath        string         `json:"corpus_path"`
	CorpusDocuments   int            `json:"corpus_documents"`
	CorpusError       string         `json:"corpus_error,omitempty"`
	IndexPath         string         `json:"index_path"`
	Index             *indexer.Meta  `json:"index,omitempty"`
	IndexStale        bool           `json:"index_stale"`
	Interactions      int            `json:"interactions"`
	LogBackend        string         `json:"log_backend"`
	EmbeddingProvider string         `json:"embedding_provider"`
	GenerationBackend string         `json:"generation_provider"`
	GenerationModel   string         `json:"generation_model"`
	DiskUsage         *storage.Usage `json:"disk_usage,omitempty"`
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show corpus, index and interaction log status",
		Long: `Show the corpus size, the persisted index metadata, whether the index matches
the current corpus, the number of recorded interactions and disk usage.

Examples:
  hotelrag status
  hotelrag status --output json`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "output format: text or json")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(statusOutput)
	if err != nil {
		return err
	}
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report := buildStatus(cfg)
	log, err := interactions.Open(cfg.Storage, logger)
	if err != nil {
		return err
	}
	report.Interactions = log.Len()
	_ = log.Close()

	if format == cli.OutputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	writeStatusText(cmd.OutOrStdout(), report)
	return nil
}

// buildStatus gathers everything but the interaction count.
func buildStatus(cfg *config.Config) *statusReport {
	report := &statusReport{
		CorpusPath:        cfg.Corpus.Path,
		IndexPath:         cfg.Storage.IndexPath,
		LogBackend:        cfg.Storage.LogBackend,
		EmbeddingProvider: cfg.Embedding.Provider,
		GenerationBackend: cfg.Generation.Provider,
		GenerationModel:   cfg.Generation.Model,
	}
	docs, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		report.CorpusError = err.Error()
	} else {
		report.CorpusDocuments = len(docs)
	}
	if meta, err := indexer.ReadMeta(cfg.Storage.IndexPath); err == nil {
		report.Index = meta
		if docs != nil {
			report.IndexStale = meta.CorpusSize != len(docs) || meta.CorpusFingerprint != corpus.Fingerprint(docs)
		}
	}
	if usage, err := storage.DataUsage(map[string]string{
		"corpus":       cfg.Corpus.Path,
		"index":        cfg.Storage.IndexPath,
		"interactions": cfg.Storage.InteractionLogPath,
		"database":     cfg.Storage.DatabasePath,
	}); err == nil {
		report.DiskUsage = usage
	}
	return report
}

func writeStatusText(w io.Writer, r *statusReport) {
	fmt.Fprintf(w, "Corpus:        %s\n", r.CorpusPath)
	if r.CorpusError != "" {
		fmt.Fprintf(w, "               error: %s\n", r.CorpusError)
	} else {
		fmt.Fprintf(w, "               %d documents\n", r.CorpusDocuments)
	}
	fmt.Fprintf(w, "Index:         %s\n", r.IndexPath)
	if r.Index == nil {
		fmt.Fprintln(w, "               not built")
	} else {
		fmt.Fprintf(w, "               %d vectors, %d dims, %s, built %s\n",
			r.Index.CorpusSize, r.Index.Dimensions, r.Index.IndexType, r.Index.BuiltAt.Format("2006-01-02 15:04:05"))
		if r.IndexStale {
			fmt.Fprintln(w, "               stale: corpus changed since build")
		}
	}
	fmt.Fprintf(w, "Interactions:  %d (%s)\n", r.Interactions, r.LogBackend)
	fmt.Fprintf(w, "Embedding:     %s\n", r.EmbeddingProvider)
	fmt.Fprintf(w, "Generation:    %s (%s)\n", r.GenerationBackend, r.GenerationModel)
	if r.DiskUsage != nil {
		fmt.Fprintf(w, "Disk usage:    %d bytes\n", r.DiskUsage.TotalBytes)
	}
}
