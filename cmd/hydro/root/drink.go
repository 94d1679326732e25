package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/spf13/cobra"
)

func newDrinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drink [ml]",
		Short: "Log a glass of water (250 ml by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount := service.QuickAmounts[0]
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return errors.Join(errorvalues.ErrValidation, errors.New("amount must be a whole number of ml"))
				}
				amount = v
			}
			ctx := context.Background()
			app, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			if app.Profile.Profile() == nil {
				return errors.New("no profile yet, run `hydro onboard` first")
			}
			wasAchieved := app.Intake.GoalAchievedToday()
			today, err := app.Intake.RecordIntake(ctx, amount)
			if err != nil {
				return err
			}
			goal, _ := app.Profile.WaterGoal()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s +%d ml (%d / %d ml)\n", IconDrop, amount, today.AmountMl, goal)
			fmt.Fprintln(out, ProgressBar(app.Intake.TodayPercentage(), 30))
			if !wasAchieved && app.Intake.GoalAchievedToday() {
				fmt.Fprintln(out, Good.Render(fmt.Sprintf("%s Goal reached! Streak: %d days", IconFire, app.Profile.Profile().Streak)))
			}
			return nil
		},
	}
	return cmd
}
