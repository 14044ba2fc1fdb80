package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [project-id]",
		Short: "Show data directory and project status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := output.New(cmd.OutOrStdout())
			out.KeyValue("data dir", a.cfg.DataDir)
			out.KeyValue("model", a.cfg.Provider.Model)

			if len(args) == 0 {
				projects, err := a.meta.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				out.KeyValue("projects", strconv.Itoa(len(projects)))
				out.Projects(projects)
				return nil
			}

			projectID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			project, err := a.meta.GetProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			docs, err := a.meta.ListDocuments(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			chunks, err := a.meta.CountChunks(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			out.KeyValue("project", fmt.Sprintf("%s (id %d)", project.Name, project.ID))
			out.KeyValue("documents", strconv.Itoa(len(docs)))
			out.KeyValue("chunks", strconv.Itoa(chunks))

			idx, ok, err := a.indexes.Read(projectID)
			if err != nil {
				out.KeyValue("index", "corrupt: "+err.Error())
			} else if !ok {
				out.KeyValue("index", "absent")
			} else {
				out.KeyValue("index", fmt.Sprintf("%d vectors", idx.Len()))
			}

			out.Documents(docs)
			return nil
		},
	}
}
