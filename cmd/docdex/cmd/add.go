package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project-id> <file>...",
		Short: "Add documents to a project",
		Long: `Add one or more documents to a project. Each file is copied
into the data directory, chunked, embedded, and indexed.
Supported formats: .txt, .md, .pdf`,
		Args: cobra.MinimumNArgs(2),
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

			out := output.New(cmd.OutOrStdout())
			for _, path := range args[1:] {
				doc, err := a.ingestor.AddDocument(cmd.Context(), projectID, path)
				if err != nil {
					if doc != nil {
						// The document persisted but indexing failed;
						// a later reindex will pick it up.
						out.Warning("added " + doc.Filename + " but indexing failed, run 'docdex reindex'")
					}
					return err
				}
				out.Successf("added %s (document %d)", doc.Filename, doc.ID)
			}
			return nil
		},
	}
}
