package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <document-id>",
		Short: "Remove a document from its project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ingestor.RemoveDocument(cmd.Context(), documentID); err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Successf("removed document %d", documentID)
			return nil
		},
	}
}
