package root

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/limbo/hydrobuddy/pkg/cleanup"
	"github.com/limbo/hydrobuddy/pkg/config"
	"github.com/limbo/hydrobuddy/pkg/logger"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "hydro",
	Short:         "HydroBuddy: track water intake, streaks and reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(configFile)
		// The server logs to stdout, one-shot commands keep stdout for their output
		if cmd.Name() == "serve" {
			logger.Init(cfg.Log)
		} else {
			slog.SetDefault(logger.New(cfg.Log, os.Stderr))
		}
		service.InitValidator()
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (defaults to $HYDRO_CONFIG)")

	rootCmd.AddCommand(
		newServeCmd(),
		newOnboardCmd(),
		newDrinkCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newResetCmd(),
		newRemoteCmd(),
		newMigrateCmd(),
	)

	err := rootCmd.Execute()
	cleanup.CleanUp()
	if err != nil {
		fmt.Fprintln(os.Stderr, Bad.Render(IconError+" "+err.Error()))
		os.Exit(1)
	}
}
