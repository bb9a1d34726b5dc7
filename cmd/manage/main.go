package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/database"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
)

var (
	cfg     *config.Config
	dbpool  *sql.DB
	dialect database.Dialect
	repo    *repository.Repository
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "Maintenance commands for the letter manager backend",
	Long: `manage runs database migrations and loads demo or random data.

It reads the same environment as the API server (DATABASE_DRIVER, DATABASE_DSN, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}

		dbpool, dialect, err = database.Open(cfg)
		if err != nil {
			return err
		}

		repo = repository.NewRepository(cfg, dbpool, dialect)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbpool != nil {
			_ = dbpool.Close()
		}
	},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	rootCmd.AddCommand(migrateCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
