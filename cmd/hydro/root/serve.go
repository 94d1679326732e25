package root

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/limbo/hydrobuddy/internal/api"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with weather refresh and reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			app.Start(ctx)
			defer func() {
				app.Stop()
				if err := app.Flush(context.Background()); err != nil {
					slog.Error("flushing pending writes error", slog.String("error", err.Error()))
				}
			}()

			if addr == "" {
				addr = cfg.API.Address
			}
			serv := api.New(&api.ServicesList{
				Profile:   app.Profile,
				Intake:    app.Intake,
				Weather:   app.Weather,
				Reminders: app.Reminders,
				Resetter:  app,
			})
			return serv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides api.address)")
	return cmd
}
