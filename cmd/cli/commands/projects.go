package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanmb/jobsite/internal/domain/project"
)

const (
	flagName   = "name"
	flagStatus = "status"
)

func init() {
	projectsCmd.AddCommand(listProjectsCmd)
	projectsCmd.AddCommand(createProjectCmd)
	projectsCmd.AddCommand(showProjectCmd)
	projectsCmd.AddCommand(deleteProjectCmd)
	projectsCmd.AddCommand(setStatusCmd)

	createProjectCmd.Flags().StringP(flagName, "n", "", "Project name")

	setStatusCmd.Flags().StringP(flagStatus, "s", "", "New status (Lead, Estimating, Scheduled, InProgress, Complete, Invoiced)")
	if err := setStatusCmd.MarkFlagRequired(flagStatus); err != nil {
		panic(fmt.Errorf("failed to mark status flag as required: %w", err))
	}
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

var listProjectsCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects visible to the owner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		summaries, err := projectSvc.List(cmd.Context(), ownerID)
		if err != nil {
			return err
		}
		return printJSON(summaries)
	},
}

var createProjectCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return fmt.Errorf("error getting name flag: %w", err)
		}
		p, err := projectSvc.Create(cmd.Context(), ownerID, name)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var showProjectCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show full project details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectSvc.Get(cmd.Context(), ownerID, args[0])
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var deleteProjectCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Permanently delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := projectSvc.Delete(cmd.Context(), ownerID, args[0]); err != nil {
			return err
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status <project-id>",
	Short: "Set a project's pipeline status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := cmd.Flags().GetString(flagStatus)
		if err != nil {
			return fmt.Errorf("error getting status flag: %w", err)
		}
		p, err := projectSvc.SetStatus(cmd.Context(), ownerID, args[0], project.Status(status))
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}
