package cmd

import (
	"fmt"
	"path/filepath"

	"sheetcal/core/config"
	"sheetcal/core/eventstore"
	"sheetcal/core/eventstore/gormstore"
	"sheetcal/core/eventstore/icsfile"
	"sheetcal/core/logger"
	"sheetcal/core/mapstore"
	"sheetcal/core/source"
	"sheetcal/core/storage"
	"sheetcal/core/sync"
	"sheetcal/core/synctimes"
	"sheetcal/feature/calendar"

	"go.uber.org/zap"
)

// bootstrap loads configuration and wires the sync service, shared by every
// command that runs the pipeline.
func bootstrap() (*config.Config, *zap.Logger, *calendar.Service, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	targets, err := config.LoadTargets(cfg.Sync.TargetsFile)
	if err != nil {
		return nil, nil, nil, err
	}

	// Minio connects lazily, so creating the client is safe even when no
	// target uses s3:// sources.
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	reader := source.NewReader(client, cfg.Storage.Bucket)

	store, err := openBackend(cfg.Sync)
	if err != nil {
		return nil, nil, nil, err
	}

	mappings := mapstore.NewFileStore(cfg.Sync.StateDir)
	times := synctimes.New(filepath.Join(cfg.Sync.StateDir, "sync_times.json"))

	service := calendar.NewService(l, targets, reader, store, mappings, times)
	return cfg, l, service, nil
}

func openBackend(cfg sync.Config) (eventstore.Store, error) {
	switch cfg.Backend {
	case sync.BackendICS:
		return icsfile.New(cfg.BackendPath), nil
	case sync.BackendSQLite:
		return gormstore.Open(cfg.BackendPath)
	case sync.BackendMemory:
		return eventstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("invalid backend %q (want ics, sqlite or memory)", cfg.Backend)
	}
}
