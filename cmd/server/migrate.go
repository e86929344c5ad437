package main

import (
	"log/slog"
	"os"

	"lunarbase-server/internal/shared/config"
	"lunarbase-server/internal/shared/database"
	"lunarbase-server/internal/shared/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			logger.Init()

			db, err := database.Connect()
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					slog.Error("Failed to close database", "error", err)
				}
			}()

			return db.RunMigrations(cmd.Context(), os.DirFS(config.GlobalConfig.Database.MigrationsPath))
		},
	}
}
