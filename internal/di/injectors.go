//go:build wireinject
// +build wireinject

package di

import (
	"bikeprice/internal"
	"bikeprice/internal/controllers"
	"bikeprice/internal/providers"
	"bikeprice/internal/registry"
	"bikeprice/internal/services"
	"bikeprice/internal/snapshot"
	"bikeprice/internal/structures"
	"bikeprice/internal/upstream"
	wire "github.com/google/wire"
)

var pricingSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	registry.NewRegistryProvider,
	upstream.NewClient,
	services.NewPricingService,
	snapshot.NewZstdCompressor,
	snapshot.NewFileManager,
	snapshot.NewArchiveProvider,
	snapshot.NewScheduler,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		pricingSet,
		providers.NewInstrumentedCacheProvider,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}

func InitRunner(cfg *structures.CliFlags) (*internal.Runner, error) {

	wire.Build(
		pricingSet,
		internal.NewRunner,
	)

	return nil, nil
}
