package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blockchainspace/internal/db"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the chain aggregate once and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.db != nil {
			if err := db.AutoMigrate(a.db); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
		}
		res, err := a.refresh.Refresh(ctx)
		if state, stateErr := a.refresh.State(ctx); stateErr == nil && state != nil {
			a.logger.Info("sync state",
				zap.String("scope", state.Scope),
				zap.Int64("runs", state.Runs),
				zap.Int64("failures", state.Failures))
		}
		if err != nil {
			a.logger.Error("refresh failed", zap.Error(err))
			return err
		}
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
