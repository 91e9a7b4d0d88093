package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shiftledger/internal/retention"
)

func newRetentionSweepCmd() *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "retention-sweep",
		Short: "Permanently delete soft-deleted WorkLogs past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv()

			cfg := retention.DefaultConfig()
			if retentionDays > 0 {
				cfg.RetentionDays = retentionDays
			}
			sweeper := retention.NewSweeper(e.gdb, e.runner, cfg, e.log)

			if err := sweeper.Run(context.Background()); err != nil {
				return err
			}
			fmt.Printf("retention-sweep complete (retention=%dd)\n", cfg.RetentionDays)
			return nil
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "override the configured retention window (default 365)")
	return cmd
}
