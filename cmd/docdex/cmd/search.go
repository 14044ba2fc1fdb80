package cmd

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
)

func newSearchCmd() *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "search <project-id> <query>...",
		Short: "Search a project's documents",
		Long: `Search a project by semantic similarity.

Examples:
  docdex search 1 "database connection pooling"
  docdex search 1 "setup instructions" --limit 10
  docdex search 1 "error handling" --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")

			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit == 0 {
				limit = a.cfg.Search.TopK
			}

			results, err := a.searcher.Search(cmd.Context(), projectID, query, limit)
			if err != nil {
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			output.New(cmd.OutOrStdout()).SearchResults(results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of results (1-20, default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}
