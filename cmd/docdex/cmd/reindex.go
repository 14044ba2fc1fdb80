package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex <project-id>",
		Short: "Rebuild a project's index from its stored documents",
		Long: `Re-extract, re-chunk, and re-embed every document stored in the
project, then rebuild the vector index. Use after changing the
chunking settings or the embedding model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.ingestor.Reindex(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Successf("reindexed project %d (%d chunks)", projectID, n)
			return nil
		},
	}
}
