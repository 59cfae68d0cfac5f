package cli

import (
	"fmt"
	"time"

	"github.com/garnizeh/chronosflow/internal/studyplan"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Calculate a daily study target",
	Long: `Spread a course's total hours evenly over a number of months.

Examples:
  chronosctl plan --hours 100 --months 2 --start 2024-01-15
  chronosctl plan --hours 40`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, _ := cmd.Flags().GetString("hours")
		m, _ := cmd.Flags().GetString("months")
		start, _ := cmd.Flags().GetString("start")

		in := studyplan.ParseInput(h, m, start, time.Now())
		plan, _ := studyplan.Calculate(in)
		fmt.Fprintln(cmd.OutOrStdout(), RenderPlan(in, plan))
		return nil
	},
}

func init() {
	planCmd.Flags().String("hours", "100", "Total hours to study")
	planCmd.Flags().String("months", "2", "Number of months")
	planCmd.Flags().String("start", "", "Start date (YYYY-MM-DD), defaults to today")
}
