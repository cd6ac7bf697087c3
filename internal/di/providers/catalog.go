package providers

import (
	"context"
	"os"

	"github.com/samber/do/v2"

	"github.com/foundershelf/foundershelf-server/internal/catalog"
	"github.com/foundershelf/foundershelf-server/internal/config"
	"github.com/foundershelf/foundershelf-server/internal/logger"
)

// ProvideImporter provides the catalog seed importer.
func ProvideImporter(i do.Injector) (*catalog.Importer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.NewImporter(storeHandle.Store, indexHandle.SearchIndex, log.Logger), nil
}

// SeedWatcherHandle wraps the seed watcher with its context for lifecycle
// management. Service is nil when seeding is disabled or the watch is off.
type SeedWatcherHandle struct {
	Watcher *catalog.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SeedWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideSeedWatcher runs the initial seed import and, when configured,
// starts the hot-reload watcher on the seed file.
func ProvideSeedWatcher(i do.Injector) (*SeedWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	importer := do.MustInvoke[*catalog.Importer](i)

	if cfg.Catalog.SeedPath == "" {
		log.Info("No catalog seed configured")
		return &SeedWatcherHandle{}, nil
	}

	if _, err := os.Stat(cfg.Catalog.SeedPath); err != nil {
		log.Warn("Catalog seed file not found, skipping import",
			"path", cfg.Catalog.SeedPath, "error", err)
		return &SeedWatcherHandle{}, nil
	}

	result, err := importer.ImportFile(context.Background(), cfg.Catalog.SeedPath)
	if err != nil {
		return nil, err
	}
	log.Info("Catalog seed imported",
		"batch_id", result.BatchID,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"duration", result.Duration,
	)

	if !cfg.Catalog.Watch {
		return &SeedWatcherHandle{}, nil
	}

	watcher, err := catalog.NewWatcher(importer, cfg.Catalog.SeedPath, 0, log.Logger)
	if err != nil {
		log.Warn("Seed watcher unavailable", "error", err)
		return &SeedWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	watcher.Start(ctx)

	return &SeedWatcherHandle{Watcher: watcher, cancel: cancel}, nil
}
