package providers

import (
	"github.com/samber/do/v2"

	"github.com/foundershelf/foundershelf-server/internal/config"
	"github.com/foundershelf/foundershelf-server/internal/logger"
	"github.com/foundershelf/foundershelf-server/internal/recommend"
	"github.com/foundershelf/foundershelf-server/internal/service"
)

// ProvideEngine provides the recommendation engine with the default weight
// table. Weights are code, not configuration.
func ProvideEngine(i do.Injector) (*recommend.Engine, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return recommend.NewEngine(recommend.DefaultWeights(), log), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, indexHandle.SearchIndex, log.Logger), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, log.Logger), nil
}

// ProvideSignalService provides the signal capture service.
func ProvideSignalService(i do.Injector) (*service.SignalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSignalService(storeHandle.Store, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	engine := do.MustInvoke[*recommend.Engine](i)
	recLogHandle := do.MustInvoke[*RecLogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(
		storeHandle.Store,
		indexHandle.SearchIndex,
		engine,
		recLogHandle.Store,
		cfg.Recommend.DefaultLimit,
		log.Logger,
	), nil
}
