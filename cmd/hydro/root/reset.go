package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var todayOnly bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data, or only today's intake with --today",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if todayOnly {
				app.Intake.ResetToday(ctx)
				fmt.Fprintln(out, Good.Render("Today's intake cleared."))
				return nil
			}
			if err := app.ResetAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, Good.Render("All data deleted. Run `hydro onboard` to start again."))
			return nil
		},
	}
	cmd.Flags().BoolVar(&todayOnly, "today", false, "only clear today's intake")
	return cmd
}
