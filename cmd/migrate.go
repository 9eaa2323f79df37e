package cmd

import (
	"errors"

	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to DB_URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.DBURL == "" {
			return errors.New("DB_URL is not set")
		}

		pool, err := store.ConnectPGDB(cmd.Context(), cfg.DBURL, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := store.MigrateFS(pool, migrations.FS, "."); err != nil {
			log.Error("Migration failed", zap.Error(err))
			return err
		}

		log.Info("Database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
