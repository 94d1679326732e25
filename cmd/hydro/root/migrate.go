package root

import (
	"context"
	"fmt"

	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the Postgres kv_store table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = cfg.Store.PGMigrations
			}
			if err := repository.Migrate(context.Background(), pgConfig(), dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Good.Render("Migrations applied from "+dir))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (overrides store.pg_migrations)")
	return cmd
}
