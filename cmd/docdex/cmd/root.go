// Package cmd provides the CLI commands for docdex.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/logging"
	"github.com/docdex/docdex/pkg/version"
)

// Persistent flags shared by all subcommands.
var (
	configPath string
	offline    bool
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the docdex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docdex",
		Short: "Project-scoped semantic search over your documents",
		Long: `docdex ingests text, markdown, and PDF documents into named
projects, embeds their content, and answers similarity queries
against a per-project vector index.

Add documents with 'docdex add', then query with 'docdex search'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("docdex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default docdex.yaml)")
	cmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use static embeddings (no provider calls)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newReindexCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogging(_ *cobra.Command, _ []string) error {
	level := "info"
	if debugMode {
		level = "debug"
	}

	cleanup, err := logging.SetupDefault(level)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup

	slog.Debug("logging_initialized", slog.String("level", level))
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
