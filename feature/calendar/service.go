package calendar

import (
	"context"
	"fmt"
	"time"

	"sheetcal/core/config"
	"sheetcal/core/eventstore"
	"sheetcal/core/mapstore"
	"sheetcal/core/source"
	"sheetcal/core/sync"
	"sheetcal/core/synctimes"

	"go.uber.org/zap"
)

// Service runs the sync pipeline for the configured targets.
type Service struct {
	logger   *zap.Logger
	targets  []config.Target
	reader   *source.Reader
	store    eventstore.Store
	mappings *mapstore.FileStore
	times    *synctimes.Store
}

// NewService wires the sync pipeline together.
func NewService(logger *zap.Logger, targets []config.Target, reader *source.Reader, store eventstore.Store, mappings *mapstore.FileStore, times *synctimes.Store) *Service {
	return &Service{
		logger:   logger,
		targets:  targets,
		reader:   reader,
		store:    store,
		mappings: mappings,
		times:    times,
	}
}

// Targets returns the configured targets.
func (s *Service) Targets() []config.Target {
	return s.targets
}

// RunResult is the outcome of syncing one target.
type RunResult struct {
	Label  string      `json:"label"`
	Report sync.Report `json:"report"`
	// Error is set when the target failed before or after reconciliation
	// (unreadable source, corrupt state, broken backend). Per-event failures
	// are counted in Report.Failed instead.
	Error string `json:"error,omitempty"`
}

// RunTarget syncs a single target end to end: read the source, load the
// identity mapping, snapshot the calendar, reconcile, then persist the new
// mapping and the sync time. Under dry run nothing is persisted.
func (s *Service) RunTarget(ctx context.Context, target config.Target, opts sync.Options) (sync.Report, error) {
	l := s.logger.With(zap.String("target", target.Label))
	l.Info("Starting sync", zap.String("source", target.Source), zap.String("calendar", target.Calendar), zap.Bool("dry_run", opts.DryRun))

	rows, err := s.reader.Open(ctx, target.Source)
	if err != nil {
		return sync.Report{}, fmt.Errorf("failed to read source: %w", err)
	}

	mapping, err := s.mappings.Load(target.Label)
	if err != nil {
		// A corrupt mapping means the link to previously created events is
		// unknown; syncing anyway would duplicate every event.
		return sync.Report{}, fmt.Errorf("failed to load identity mapping: %w", err)
	}

	col, err := s.store.EnsureCollection(ctx, target.Calendar)
	if err != nil {
		return sync.Report{}, fmt.Errorf("failed to open calendar %s: %w", target.Calendar, err)
	}
	snapshot, err := col.ListEvents(ctx)
	if err != nil {
		return sync.Report{}, fmt.Errorf("failed to list calendar %s: %w", target.Calendar, err)
	}

	intents, rowErrs := sync.NormalizeAll(rows, time.Local)
	for _, re := range rowErrs {
		l.Warn("Skipping row", zap.Int("row", re.Index), zap.Error(re.Err))
	}

	report := sync.Reconcile(ctx, col, snapshot, mapping, intents, opts, l)
	report.Skipped = len(rowErrs)

	if !opts.DryRun {
		if err := s.mappings.Save(target.Label, mapping); err != nil {
			return report, fmt.Errorf("failed to save identity mapping: %w", err)
		}
		if err := s.times.Record(target.Label, time.Now()); err != nil {
			return report, fmt.Errorf("failed to record sync time: %w", err)
		}
	}

	l.Info("Sync finished",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("deleted", report.Deleted),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// Run syncs the named targets, or all configured targets when labels is
// empty. A failing target is reported and does not stop the others.
func (s *Service) Run(ctx context.Context, labels []string, opts sync.Options) ([]RunResult, error) {
	targets, err := s.resolve(labels)
	if err != nil {
		return nil, err
	}

	results := make([]RunResult, 0, len(targets))
	for _, target := range targets {
		report, err := s.RunTarget(ctx, target, opts)
		result := RunResult{Label: target.Label, Report: report}
		if err != nil {
			s.logger.Error("Target sync failed", zap.String("target", target.Label), zap.Error(err))
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

// TargetStatus describes one target and whether its calendar looks outdated.
type TargetStatus struct {
	Label    string `json:"label"`
	Source   string `json:"source"`
	Calendar string `json:"calendar"`

	LastSync       *time.Time `json:"lastSync,omitempty"`
	SourceModified *time.Time `json:"sourceModified,omitempty"`

	// Stale is true when the target was never synced or the source changed
	// after the last sync.
	Stale bool `json:"stale"`
}

// Statuses reports every configured target with its staleness, comparing the
// source's modification time against the last recorded sync.
func (s *Service) Statuses(ctx context.Context) ([]TargetStatus, error) {
	times, err := s.times.Load()
	if err != nil {
		return nil, err
	}

	statuses := make([]TargetStatus, 0, len(s.targets))
	for _, target := range s.targets {
		status := TargetStatus{
			Label:    target.Label,
			Source:   target.Source,
			Calendar: target.Calendar,
			Stale:    true,
		}

		if last, ok := times[target.Label]; ok {
			t := last
			status.LastSync = &t
			status.Stale = false
		}

		if mod, err := s.reader.ModTime(ctx, target.Source); err != nil {
			s.logger.Debug("Could not stat source", zap.String("target", target.Label), zap.Error(err))
		} else {
			m := mod
			status.SourceModified = &m
			if status.LastSync != nil && mod.After(*status.LastSync) {
				status.Stale = true
			}
		}

		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *Service) resolve(labels []string) ([]config.Target, error) {
	if len(labels) == 0 {
		return s.targets, nil
	}

	byLabel := make(map[string]config.Target, len(s.targets))
	for _, t := range s.targets {
		byLabel[t.Label] = t
	}

	targets := make([]config.Target, 0, len(labels))
	for _, label := range labels {
		t, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", label)
		}
		targets = append(targets, t)
	}
	return targets, nil
}
