package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/limbo/hydrobuddy/pkg/dateutil"
	"github.com/limbo/hydrobuddy/pkg/entity"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var month bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the last 7 days, or this month with --month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			series := app.Intake.WeeklySeries()
			title := "Last 7 days"
			if month {
				series = app.Intake.MonthlySeries()
				title = "This month"
			}
			goal, _ := app.Profile.WaterGoal()
			printSeries(cmd, title, series, goal)
			return nil
		},
	}
	cmd.Flags().BoolVar(&month, "month", false, "show month to date")
	return cmd
}

func printSeries(cmd *cobra.Command, title string, series []entity.SeriesPoint, goal int) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Heading(IconDrop, title))
	scale := goal
	for _, p := range series {
		scale = max(scale, p.AmountMl)
	}
	for _, p := range series {
		width := 0
		if scale > 0 {
			width = p.AmountMl * 30 / scale
		}
		bar := strings.Repeat("▇", width)
		if goal > 0 && p.AmountMl >= goal {
			bar = Good.Render(bar)
		} else {
			bar = Warn.Render(bar)
		}
		fmt.Fprintf(out, "%s %-6s %s %s\n", dateutil.DayName(p.Date), dateutil.DisplayDate(p.Date), bar, Muted.Render(fmt.Sprintf("%d ml", p.AmountMl)))
	}
}
