package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haocluo92/well-scheduler/config"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	infrakpi "github.com/haocluo92/well-scheduler/infra/kpi"
	"github.com/haocluo92/well-scheduler/jobs/utilkpi"
)

var backfillOut string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild the per-resource utilization history from the run log",
	RunE:  runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&backfillOut, "out", "resource_kpi.db", "utilization database file")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var src runlog.Store
	switch cfg.RunLog.Backend {
	case "sqlite":
		src, err = runlog.NewSQLiteStore(cfg.RunLog.Path)
	default:
		src, err = runlog.NewJSONLStore(cfg.RunLog.Path)
	}
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer func() { _ = src.Close() }()

	runs, err := src.Query(context.Background(), runlog.Query{})
	if err != nil {
		return fmt.Errorf("query run log: %w", err)
	}
	store, err := infrakpi.NewSQLiteStore(backfillOut)
	if err != nil {
		return fmt.Errorf("open kpi store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := utilkpi.Backfill(store, runs); err != nil {
		return fmt.Errorf("backfill: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "backfilled %d runs into %s\n", len(runs), backfillOut)
	return nil
}
