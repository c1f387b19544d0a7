package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
	"github.com/hyperjump/hotelrag/internal/interactions"
)

var (
	historyLimit  int
	historyOutput string
	exportLimit   int
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded interactions",
		Long: `Inspect the interaction log.

Examples:
  hotelrag history list
  hotelrag history list --limit 5 --output json
  hotelrag history export interactions.xlsx`,
	}
	cmd.AddCommand(newHistoryListCmd(), newHistoryExportCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent interactions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of interactions to show (0 for all)")
	cmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "output format: text or json")
	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export interactions to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryExport,
	}
	cmd.Flags().IntVarP(&exportLimit, "limit", "n", 0, "export only the most recent N interactions (0 for all)")
	return cmd
}

func openLog() (interactions.Log, func(), error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, nil, err
	}
	log, err := interactions.Open(cfg.Storage, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return log, func() {
		_ = log.Close()
		_ = logger.Sync()
	}, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyOutput)
	if err != nil {
		return err
	}
	log, done, err := openLog()
	if err != nil {
		return err
	}
	defer done()

	records, err := log.Records(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading interactions: %w", err)
	}
	return cli.WriteHistory(cmd.OutOrStdout(), records, format)
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	log, done, err := openLog()
	if err != nil {
		return err
	}
	defer done()

	records, err := log.Records(cmd.Context(), exportLimit)
	if err != nil {
		return fmt.Errorf("reading interactions: %w", err)
	}
	if err := interactions.ExportXLSX(records, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d interactions to %s\n", len(records), args[0])
	return nil
}
