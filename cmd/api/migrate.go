package main

import (
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logs.New(cfg)

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			logger.Info("migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}
