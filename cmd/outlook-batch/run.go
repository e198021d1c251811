package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mingus-outlook/internal/app"
	"mingus-outlook/internal/config"
	"mingus-outlook/internal/domain"
)

func init() {
	var date string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Generate today's outlook for every active user and send notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			target, err := parseRunDate(date, cfg.Location())
			if err != nil {
				return err
			}

			logger := newLogger()
			defer logger.Sync()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Batch.Run(ctx, target)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				logger.Warn("encode report", zap.Error(encErr))
			}
			return err
		},
	}
	runCmd.Flags().StringVarP(&date, "date", "d", "", "Outlook date YYYY-MM-DD (defaults to today in OUTLOOK_TIMEZONE)")
	rootCmd.AddCommand(runCmd)
}

// parseRunDate interpreta la fecha en la zona del outlook; vacio devuelve zero (hoy).
func parseRunDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}
