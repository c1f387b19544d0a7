package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
)

var (
	askOutput string
	askRaw    bool
)

// NewAskCmd creates the ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer one question",
		Long: `Answer one question from the corpus and record the interaction.

The question is all remaining arguments joined by spaces.

Examples:
  hotelrag ask What is the cancellation rate?
  hotelrag ask "How long do guests stay?" --output json
  hotelrag ask "What is the booking rate?" --raw`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVarP(&askOutput, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&askRaw, "raw", false, "include the extracted answer before post-processing")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(askOutput)
	if err != nil {
		return err
	}
	question := joinArgs(args)

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeComponents(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	result, err := components.Pipeline.ProcessMessage(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("processing question: %w", err)
	}
	return cli.WriteAnswer(cmd.OutOrStdout(), result, format, askRaw)
}
