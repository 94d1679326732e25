package root

import (
	"context"
	"errors"
	"fmt"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/spf13/cobra"
)

func newOnboardCmd() *cobra.Command {
	var (
		name   string
		weight float64
		unit   string
		update bool
	)
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create your profile, or update it with --update",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			req := &service.CreateProfileRequest{
				Name:   name,
				Weight: weight,
				Unit:   service.WeightUnit(unit),
			}
			create := app.Profile.CreateProfile
			if update {
				create = app.Profile.UpdateDetails
			}
			p, err := create(ctx, req)
			if errors.Is(err, errorvalues.ErrProfileExists) {
				return errors.New("you are already onboarded, pass --update to change name or weight")
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, Heading(IconDrop, "Welcome, "+p.Name+"!"))
			fmt.Fprintln(out, LabelValue("Weight", fmt.Sprintf("%.1f kg", p.WeightKg)))
			fmt.Fprintln(out, LabelValue("Daily goal", fmt.Sprintf("%d ml", p.WaterGoalMl)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().Float64Var(&weight, "weight", 0, "body weight")
	cmd.Flags().StringVar(&unit, "unit", "kg", "weight unit: kg or lb")
	cmd.Flags().BoolVar(&update, "update", false, "change name and weight of an existing profile")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}
