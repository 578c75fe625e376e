package main

import (
	"github.com/spf13/cobra"

	"blockchainspace/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and seed feature switches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.db == nil {
			return a.dbErr
		}
		if err := db.AutoMigrate(a.db); err != nil {
			return err
		}
		if err := a.settings.EnsureDefaultSwitches(ctx); err != nil {
			return err
		}
		a.logger.Info("migration complete")
		return nil
	},
}
