package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(newProjectNewCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectRemoveCmd())

	return cmd
}

func newProjectNewCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.meta.CreateProject(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.Successf("created project %q (id %d)", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			projects, err := a.meta.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Projects(projects)
			return nil
		},
	}
}

func newProjectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete a project and its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ingestor.DeleteProject(cmd.Context(), projectID); err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Successf("deleted project %d", projectID)
			return nil
		},
	}
}
