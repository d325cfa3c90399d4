package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanmb/jobsite/internal/domain/project"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <project-id>",
	Short: "Show estimate totals for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		totals, err := projectSvc.Estimate(cmd.Context(), ownerID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Subtotal:    %s\n", project.FormatMoney(totals.Subtotal))
		fmt.Printf("Tax:         %s\n", project.FormatMoney(totals.Tax))
		fmt.Printf("Grand total: %s\n", project.FormatMoney(totals.GrandTotal))
		return nil
	},
}
