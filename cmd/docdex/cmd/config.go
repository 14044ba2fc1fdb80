package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/configs"
	"github.com/docdex/docdex/internal/config"
	"github.com/docdex/docdex/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an annotated config file to the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.DefaultConfigFile
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(configs.ExampleConfig), 0644); err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Successf("wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.KeyValue("data dir", cfg.DataDir)
			out.KeyValue("endpoint", cfg.Provider.Endpoint)
			out.KeyValue("model", cfg.Provider.Model)
			out.KeyValue("timeout", cfg.ProviderTimeout().String())
			out.KeyValue("chunk size", fmt.Sprintf("%d", cfg.Chunking.Size))
			out.KeyValue("chunk overlap", fmt.Sprintf("%d", cfg.Chunking.Overlap))
			out.KeyValue("top k", fmt.Sprintf("%d", cfg.Search.TopK))
			out.KeyValue("log level", cfg.LogLevel)

			if cfg.Provider.Token == "" {
				out.Warning("GITHUB_MODELS_TOKEN is not set; only --offline mode will work")
			}
			return nil
		},
	}
}
