package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haocluo92/well-scheduler/config"
	"github.com/haocluo92/well-scheduler/core/simops"
	"github.com/haocluo92/well-scheduler/pkg/export"
	"github.com/haocluo92/well-scheduler/pkg/fieldplan"
)

var (
	simopsThreshold float64
	simopsFormat    string
)

var simopsCmd = &cobra.Command{
	Use:   "simops",
	Short: "List batch pairs needing simultaneous-operations coordination",
	RunE:  runSimops,
}

func init() {
	simopsCmd.Flags().Float64Var(&simopsThreshold, "threshold", 0, "proximity threshold in meters (default from config)")
	simopsCmd.Flags().StringVar(&simopsFormat, "format", "table", "output format: table, json or csv")
	rootCmd.AddCommand(simopsCmd)
}

func runSimops(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	doc, err := fieldplan.Load(cfg.Fieldplan.Path)
	if err != nil {
		return fmt.Errorf("load field plan: %w", err)
	}
	plan, err := doc.Build()
	if err != nil {
		return fmt.Errorf("build field plan: %w", err)
	}
	threshold := simopsThreshold
	if threshold <= 0 {
		threshold = cfg.Planner.SimopsThresholdMeters
	}
	pairs := simops.NewAnalyzer(threshold).Pairs(plan.Batches)

	out := cmd.OutOrStdout()
	switch simopsFormat {
	case "json":
		return export.WriteConflictsJSON(out, pairs)
	case "csv":
		return export.WriteConflictsCSV(out, pairs)
	case "table":
		if len(pairs) == 0 {
			if _, err := fmt.Fprintln(out, "no conflicts"); err != nil {
				return err
			}
			return nil
		}
		for _, p := range pairs {
			if _, err := fmt.Fprintf(out, "%s <-> %s (%s / %s): %.0f m\n",
				p.BatchA, p.BatchB, p.WellA, p.WellB, p.DistanceMeters); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", simopsFormat)
	}
}
