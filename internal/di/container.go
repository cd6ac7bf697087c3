// Package di provides dependency injection configuration for the FounderShelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/foundershelf/foundershelf-server/internal/catalog"
	"github.com/foundershelf/foundershelf-server/internal/config"
	"github.com/foundershelf/foundershelf-server/internal/di/providers"
	"github.com/foundershelf/foundershelf-server/internal/logger"
	"github.com/foundershelf/foundershelf-server/internal/recommend"
	"github.com/foundershelf/foundershelf-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideRecLog)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Catalog intake
	do.Provide(injector, providers.ProvideImporter)
	do.Provide(injector, providers.ProvideSeedWatcher)

	// Ranking engine and business services
	do.Provide(injector, providers.ProvideEngine)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideSignalService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.RecLogHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Catalog intake
	_ = do.MustInvoke[*catalog.Importer](injector)
	_ = do.MustInvoke[*providers.SeedWatcherHandle](injector)

	// Ranking engine and business services
	_ = do.MustInvoke[*recommend.Engine](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.SignalService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	// Backfill the search index if the catalog outran it
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
