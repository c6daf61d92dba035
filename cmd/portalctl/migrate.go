package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/informreaders/portal/internal/app"
	"github.com/informreaders/portal/internal/platform/db"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.deps.config()
			if err != nil {
				return err
			}
			return c.deps.migrate(cfg, c.logger())
		},
	}
}

func runMigrations(cfg *app.Config, logger *slog.Logger) error {
	return db.Migrate(cfg.PGDSN, logger)
}
