package assetregistry

import (
	"log/slog"

	httpadapter "atelier/contexts/asset-core/asset-registry/adapters/http"
	"atelier/contexts/asset-core/asset-registry/adapters/memory"
	"atelier/contexts/asset-core/asset-registry/application"
	"atelier/contexts/asset-core/asset-registry/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Settings   ports.SettingsRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Repo:     deps.Repository,
		Settings: deps.Settings,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Settings:   store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
