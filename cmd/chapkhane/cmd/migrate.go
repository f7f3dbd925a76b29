package cmd

import (
	"context"
	"database/sql"

	"chapkhane/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  migrateWith(storage.RunMigrations),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE:  migrateWith(storage.RollbackMigration),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE:  migrateWith(storage.MigrationStatus),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func migrateWith(fn func(context.Context, *sql.DB, *zap.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pg, err := storage.NewPostgresStorage(ctx, cfg.Database, appLogger)
		if err != nil {
			return err
		}
		defer pg.Close()
		return fn(ctx, pg.DB(), appLogger)
	}
}
