package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sheetcal/core/sync"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncTargets  []string
	syncDryRun   bool
	syncSchedule string
)

// syncCmd runs the spreadsheet-to-calendar sync once or on a schedule.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync spreadsheets into calendars",
	Long: `Sync reads each target's spreadsheet and reconciles its calendar:
new rows create events, changed rows update them, removed rows delete them.

Examples:
  # Sync every configured target once
  sync

  # Sync selected targets
  sync --target team-schedule --target on-call

  # Show what would change without touching anything
  sync --dry-run

  # Sync every 15 minutes until interrupted
  sync --schedule "*/15 * * * *"`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncTargets, "target", nil, "Target label to sync (repeatable, default all)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report planned actions without writing anything")
	syncCmd.Flags().StringVar(&syncSchedule, "schedule", "", "Cron expression to run the sync repeatedly")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, l, service, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	opts := sync.Options{DryRun: syncDryRun}

	if syncSchedule == "" {
		results, err := service.Run(ctx, syncTargets, opts)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d targets failed", failed, len(results))
		}
		return nil
	}

	// Scheduled mode: run immediately, then on every cron tick until a
	// signal arrives. A failing tick is logged and the schedule keeps going.
	runOnce := func() {
		if _, err := service.Run(ctx, syncTargets, opts); err != nil {
			l.Error("Scheduled sync failed", zap.Error(err))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(syncSchedule, runOnce); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", syncSchedule, err)
	}

	runOnce()
	c.Start()
	l.Info("Sync scheduled", zap.String("schedule", syncSchedule))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	l.Info("Stopping schedule...")
	<-c.Stop().Done()
	return nil
}
