//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"rwstats/internal"
	"rwstats/internal/controllers"
	"rwstats/internal/maintenance"
	"rwstats/internal/providers"
	"rwstats/internal/services"
	"rwstats/internal/store"
	"rwstats/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewZstdCompressor,
		providers.NewRecordStoreProvider,
		providers.NewObjectStoreProvider,

		services.NewVisitorService,
		services.NewStorageService,
		services.NewUploadService,

		maintenance.NewScheduler,
		controllers.NewVisitorController,
		controllers.NewStorageController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
