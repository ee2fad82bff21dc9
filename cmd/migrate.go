package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"courtbook/internal/config"
	"courtbook/internal/store/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the bookings schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger("info")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{})
			if err != nil {
				return err
			}
			defer func() {
				if err := postgres.Close(db); err != nil {
					log.Warn("database close failed", slog.Any("err", err))
				}
			}()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}

			log.Info("database migrated", databaseLogArgs(cfg.DatabaseURL)...)
			return nil
		},
	}
}
