package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// targetsCmd lists the configured targets and whether they look stale.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List sync targets and their staleness",
	Long: `Targets lists every configured target with its last sync time and the
source's modification time. A target is stale when it was never synced or the
spreadsheet changed after the last sync.`,
	RunE: runTargets,
}

func init() {
	RootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	_, l, service, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	statuses, err := service.Statuses(context.Background())
	if err != nil {
		return err
	}

	for _, s := range statuses {
		fields := []zap.Field{
			zap.String("source", s.Source),
			zap.String("calendar", s.Calendar),
			zap.Bool("stale", s.Stale),
		}
		if s.LastSync != nil {
			fields = append(fields, zap.Time("last_sync", *s.LastSync))
		}
		if s.SourceModified != nil {
			fields = append(fields, zap.Time("source_modified", *s.SourceModified))
		}
		l.Info(s.Label, fields...)
	}
	return nil
}
