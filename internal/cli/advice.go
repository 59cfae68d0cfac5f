package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Ask the model for a productivity tip about an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		ctx := cmd.Context()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		acc, err := e.accountByEmail(ctx, email)
		if err != nil {
			return err
		}
		text, err := e.tracker.Advice(ctx, acc.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), RenderAdvice(text))
		return nil
	},
}

func init() {
	adviceCmd.Flags().String("email", "", "Account email")
	_ = adviceCmd.MarkFlagRequired("email")
}
