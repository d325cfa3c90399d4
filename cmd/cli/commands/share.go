package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanmb/jobsite/internal/domain/member"
)

const (
	flagEmail = "email"
	flagRole  = "role"
)

func init() {
	shareCmd.Flags().StringP(flagEmail, "e", "", "Email of the user to share with")
	shareCmd.Flags().StringP(flagRole, "r", string(member.RoleEditor), "Role to grant (editor or viewer)")
	if err := shareCmd.MarkFlagRequired(flagEmail); err != nil {
		panic(fmt.Errorf("failed to mark email flag as required: %w", err))
	}

	profileCmd.Flags().StringP(flagEmail, "e", "", "Email to register for the acting owner")
	if err := profileCmd.MarkFlagRequired(flagEmail); err != nil {
		panic(fmt.Errorf("failed to mark email flag as required: %w", err))
	}
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Register the acting owner's email so others can share with them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, err := cmd.Flags().GetString(flagEmail)
		if err != nil {
			return fmt.Errorf("error getting email flag: %w", err)
		}
		if err := memberSvc.EnsureProfile(cmd.Context(), ownerID, email); err != nil {
			return err
		}
		fmt.Println("profile registered for", ownerID)
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <project-id>",
	Short: "Share a project with another user by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := cmd.Flags().GetString(flagEmail)
		if err != nil {
			return fmt.Errorf("error getting email flag: %w", err)
		}
		role, err := cmd.Flags().GetString(flagRole)
		if err != nil {
			return fmt.Errorf("error getting role flag: %w", err)
		}
		m, err := memberSvc.Share(cmd.Context(), args[0], email, member.Role(role))
		if err != nil {
			return err
		}
		return printJSON(m)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members <project-id>",
	Short: "List the users a project is shared with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberships, err := memberSvc.Members(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(memberships)
	},
}
