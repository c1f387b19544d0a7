// Package commands implements the hotelrag command tree.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

const defaultConfigPath = "/usr/local/etc/hotelrag/config.yaml"

var (
	configPath string
	debugFlag  bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotelrag",
		Short: "Answer questions about hotel booking analysis",
		Long: `hotelrag answers natural-language questions about a corpus of hotel booking
analysis snippets. It retrieves the most relevant snippets from a vector index,
asks a text-generation model to answer from them, and records every interaction.

Examples:
  hotelrag ask "What is the cancellation rate?"
  hotelrag serve
  hotelrag index --force
  hotelrag history list --limit 5`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// API keys may live in .env
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	cmd.AddCommand(
		NewServeCmd(),
		NewAskCmd(),
		NewIndexCmd(),
		NewSearchCmd(),
		NewHistoryCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory takes precedence so that running from a project directory uses its config.
// A missing file yields defaults. Returns the config and the path that was looked up.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				path = fallback
			}
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setup loads the config and creates a logger honoring --debug.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	debug := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debug))
	return cfg, logger, nil
}

// joinArgs joins positional arguments into one query string.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
