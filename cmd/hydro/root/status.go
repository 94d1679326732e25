package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's progress, streak, badges and weather",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := app.Profile.Profile()
			if p == nil {
				fmt.Fprintln(out, Muted.Render("No profile yet. Run `hydro onboard --name NAME --weight KG`."))
				return nil
			}
			if refresh {
				app.Weather.Refresh(ctx)
			}

			today := app.Intake.Today()
			fmt.Fprintln(out, Heading(IconDrop, "Hi "+p.Name))
			fmt.Fprintln(out, LabelValue("Today", fmt.Sprintf("%d / %d ml in %d drinks", today.AmountMl, p.WaterGoalMl, len(today.Entries))))
			fmt.Fprintln(out, ProgressBar(app.Intake.TodayPercentage(), 30))
			fmt.Fprintln(out, LabelValue("Streak", fmt.Sprintf("%s %d days", IconFire, p.Streak)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, Key.Render("Badges"))
			for _, b := range p.Badges {
				if b.Unlocked {
					when := ""
					if b.UnlockedAt != nil {
						when = b.UnlockedAt.Format("Jan 2")
					}
					fmt.Fprintf(out, "- %s %s %s\n", IconTrophy, Good.Render(b.Name), Muted.Render(when))
					continue
				}
				fmt.Fprintf(out, "- %s %s %s\n", IconLock, b.Name, Muted.Render(b.Description))
			}
			fmt.Fprintln(out, "")

			w := app.Weather.Current()
			if w.Description != "" {
				fmt.Fprintln(out, LabelValue("Weather", fmt.Sprintf("%s %.0f°C, %.0f%% humidity, %s", IconSun, w.TempC, w.HumidityPct, w.Description)))
			}
			if w.Error != "" {
				fmt.Fprintln(out, Warn.Render(w.Error))
			}
			if msg, ok := app.Weather.Message(); ok {
				fmt.Fprintln(out, msg)
			}

			rs := app.Reminders.Settings()
			state := Muted.Render("off")
			if rs.Enabled {
				state = Good.Render(fmt.Sprintf("every %d min, %s-%s", rs.IntervalMinutes, rs.StartTime, rs.EndTime))
			}
			fmt.Fprintln(out, LabelValue(IconBell+" Reminders", state))
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch weather if the cache is stale")
	return cmd
}
