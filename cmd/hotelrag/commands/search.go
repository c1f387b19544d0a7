package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
	"github.com/hyperjump/hotelrag/internal/corpus"
	"github.com/hyperjump/hotelrag/internal/keyword"
)

var (
	searchLimit  int
	searchFuzzy  bool
	searchOutput string
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Keyword search over the corpus",
		Long: `Look up corpus snippets by keyword. Matches text and category; no model is
involved and nothing is recorded.

Examples:
  hotelrag search cancellation
  hotelrag search reservatons --fuzzy
  hotelrag search lead time --limit 3 --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	cmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "tolerate typos")
	cmd.Flags().StringVarP(&searchOutput, "output", "o", "text", "output format: text or json")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(searchOutput)
	if err != nil {
		return err
	}
	query := joinArgs(args)
	if query == "" {
		return errors.New("search terms are empty")
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	docs, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	idx, err := keyword.NewCorpusIndex(docs)
	if err != nil {
		return err
	}
	defer idx.Close()

	hits, err := idx.Search(cmd.Context(), query, searchLimit, &keyword.SearchOptions{FuzzyEnabled: searchFuzzy})
	if err != nil {
		return err
	}
	return cli.WriteHits(cmd.OutOrStdout(), query, hits, format)
}
