package cli

import (
	"fmt"
	"time"

	"github.com/garnizeh/chronosflow/internal/calendar"
	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week [date]",
	Short: "Show the ISO week number of a date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := calendar.Today(time.Now())
		if len(args) == 1 {
			parsed, err := calendar.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
			}
			d = parsed
		}
		fmt.Fprintln(cmd.OutOrStdout(), RenderWeek(calendar.FormatDate(d), calendar.ISOWeekNumber(d), calendar.MonthYearKey(d)))
		return nil
	},
}
