package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexForce bool

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or verify the vector index",
		Long: `Load the persisted vector index, rebuilding it when it is missing or was built
from a different corpus. --force always rebuilds.

Examples:
  hotelrag index
  hotelrag index --force`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}

	cmd.Flags().BoolVar(&indexForce, "force", false, "rebuild even if a valid index exists")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeIndex(cmd.Context(), cfg, logger, indexForce)
	if err != nil {
		return err
	}
	defer components.Close()

	res := components.IndexResult
	out := cmd.OutOrStdout()
	if res.Built {
		fmt.Fprintf(out, "Built index of %d vectors (%s)\n", res.Size, res.Reason)
	} else {
		fmt.Fprintf(out, "Loaded index of %d vectors\n", res.Size)
	}
	fmt.Fprintf(out, "Path: %s\n", cfg.Storage.IndexPath)
	return nil
}
