package main

import (
	"fmt"
	"os"
	"strings"

	"shelter-adoptions/internal/platform/config"
	"shelter-adoptions/internal/platform/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shelter-api",
	Short: "API de adopciones del refugio",
	Long: `Expone perros, solicitudes de adopción y timeline por HTTP.
Sin subcomando arranca el servidor (igual que "serve").`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Archivo YAML de configuración (el entorno lo pisa)")
	rootCmd.PersistentFlags().String("db-driver", "", "memory | postgres | sqlite")
	rootCmd.PersistentFlags().String("db-dsn", "", "DSN de Postgres o ruta del archivo SQLite")
	rootCmd.PersistentFlags().StringP("port", "p", "", "Puerto HTTP")
}

// loadConfig: defaults < YAML < entorno < flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("db-driver"); strings.TrimSpace(v) != "" {
		cfg.DB.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, _ := cmd.Flags().GetString("db-dsn"); strings.TrimSpace(v) != "" {
		cfg.DB.DSN = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("port"); strings.TrimSpace(v) != "" {
		cfg.Port = strings.TrimPrefix(strings.TrimSpace(v), ":")
	}
	if cfg.DB.Driver == config.DriverSQLite && cfg.DB.DSN == "" {
		cfg.DB.DSN = "shelter.db"
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})
}
