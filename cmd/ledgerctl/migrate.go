package main

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/household-ledger/internal/config"
	"github.com/carson-networks/household-ledger/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded Postgres schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DataBackend != config.BackendPostgres {
				return fmt.Errorf("migrate needs the %s backend, got %s", config.BackendPostgres, cfg.DataBackend)
			}

			db, err := sql.Open("postgres", cfg.PostgresURL())
			if err != nil {
				return fmt.Errorf("sql.Open: %w", err)
			}
			defer db.Close()

			result, err := postgres.Migrate(db)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"preMigrationVersion":  result.PreMigrationVersion,
				"postMigrationVersion": result.PostMigrationVersion,
			}).Info("Migration status")
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (was %d)\n", result.PostMigrationVersion, result.PreMigrationVersion)
			return nil
		},
	}
}
