package main

import (
	"fmt"

	"shelter-adoptions/internal/platform/config"
	"shelter-adoptions/internal/router"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica el esquema en Postgres o SQLite",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DB.Driver == config.DriverMemory {
			return fmt.Errorf("migrate needs a database: set DB_DRIVER or --db-driver")
		}

		backend, err := router.OpenBackend(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer backend.Close()

		newLogger(cfg).Info("schema applied", map[string]any{"db_driver": cfg.DB.Driver})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
