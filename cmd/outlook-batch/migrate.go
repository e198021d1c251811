package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mingus-outlook/internal/config"
	"mingus-outlook/internal/db"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.StoreDriver != "postgres" {
				return fmt.Errorf("migrate only applies to STORE_DRIVER=postgres; sqlite migrates on open")
			}
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return fmt.Errorf("db pool: %w", err)
			}
			defer pool.Close()

			if err := db.Ping(ctx, pool); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if err := db.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("db migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
	rootCmd.AddCommand(migrateCmd)
}
