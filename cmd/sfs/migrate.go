package main

import (
	"github.com/spf13/cobra"

	"github.com/rpattn/sfs/internal/db"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the bundled database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings()
		if err != nil {
			return err
		}
		if migrateDown {
			return db.RollbackMigrations(settings.Database, logger)
		}
		return db.RunMigrations(settings.Database, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back every migration")
}
