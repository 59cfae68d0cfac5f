package cli

import (
	"fmt"

	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show hour totals for an account",
	Long: `Show weekly, monthly and all-time hours for an account's selected
employee, or for --employee. Employer accounts also get the team overview.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		employeeID, _ := cmd.Flags().GetString("employee")
		rate, _ := cmd.Flags().GetFloat64("rate")
		team, _ := cmd.Flags().GetBool("team")

		ctx := cmd.Context()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.Close()

		acc, err := e.accountByEmail(ctx, email)
		if err != nil {
			return err
		}

		var sum service.EmployeeSummary
		if employeeID != "" {
			sum, err = e.tracker.Summary(ctx, acc.ID, employeeID, rate)
		} else {
			sum, err = e.tracker.CurrentSummary(ctx, acc.ID, rate)
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, RenderSummary(sum, rate))

		if team {
			totals, err := e.tracker.Team(ctx, acc.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, RenderTeam(totals))
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().String("email", "", "Account email")
	summaryCmd.Flags().String("employee", "", "Employee id (defaults to the selected employee)")
	summaryCmd.Flags().Float64("rate", 0, "Hourly rate for the earnings estimate")
	summaryCmd.Flags().Bool("team", false, "Also show per-employee totals")
	_ = summaryCmd.MarkFlagRequired("email")
}
