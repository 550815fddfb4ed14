package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haocluo92/well-scheduler/config"
	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/schedule"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	"github.com/haocluo92/well-scheduler/infra/logger"
	"github.com/haocluo92/well-scheduler/infra/mqtt"
	"github.com/haocluo92/well-scheduler/pkg/export"
	"github.com/haocluo92/well-scheduler/pkg/fieldplan"
)

var (
	planFormat  string
	planOutput  string
	planPublish bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one scheduling pass and export the assignments",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or csv")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "output file (default stdout)")
	planCmd.Flags().BoolVar(&planPublish, "publish", false, "publish the run over MQTT")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	res, err := scheduleOnce(cfg)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if planOutput != "" {
		f, err := os.Create(planOutput)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	switch planFormat {
	case "json":
		err = export.WriteJSON(out, res.Events)
	case "csv":
		err = export.WriteCSV(out, res.Events)
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}
	if err != nil {
		return err
	}

	if planPublish && cfg.MQTT.Broker != "" {
		notifier, err := mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt notifier: %w", err)
		}
		defer func() { _ = notifier.Close() }()
		rec := runlog.FromResult(res, cfg.Planner.FracLagDays)
		if _, err := notifier.PublishRun(rec); err != nil {
			return fmt.Errorf("publish run: %w", err)
		}
		if err := notifier.PublishConflicts(rec.RunID, rec.Conflicts); err != nil {
			return fmt.Errorf("publish conflicts: %w", err)
		}
	}
	return nil
}

// scheduleOnce assembles a scheduler from the plan file and runs a single
// pass.
func scheduleOnce(cfg *config.Config) (*schedule.Result, error) {
	doc, err := fieldplan.Load(cfg.Fieldplan.Path)
	if err != nil {
		return nil, fmt.Errorf("load field plan: %w", err)
	}
	plan, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("build field plan: %w", err)
	}
	rigs, err := schedule.NewPool(model.KindRig, plan.Rigs...)
	if err != nil {
		return nil, err
	}
	crews, err := schedule.NewPool(model.KindFracCrew, plan.Crews...)
	if err != nil {
		return nil, err
	}
	sched, err := schedule.New(plan.Batches, rigs, crews, logger.New("plan-command"))
	if err != nil {
		return nil, err
	}
	if err := sched.SetFracLag(cfg.Planner.FracLagDays); err != nil {
		return nil, err
	}
	if start, end, ok, herr := cfg.Planner.Horizon(); herr != nil {
		return nil, herr
	} else if ok {
		if err := sched.SetPlanningHorizon(start, end); err != nil {
			return nil, err
		}
	}
	if cfg.Planner.SimopsEnabled {
		sched.EnableSimops(cfg.Planner.SimopsThresholdMeters)
	}
	return sched.Schedule()
}
