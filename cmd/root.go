package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haocluo92/well-scheduler/app"
	"github.com/haocluo92/well-scheduler/config"
	"github.com/haocluo92/well-scheduler/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "well-scheduler",
	Short: "Well drilling and fracturing schedule service",
	Long: `well-scheduler plans drill and frac work for well batches over shared
rigs and frac crews. Run without a subcommand it starts the planning
service; the plan, simops and backfill subcommands run one-shot tasks.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
