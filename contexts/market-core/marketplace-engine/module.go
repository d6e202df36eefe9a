package marketplaceengine

import (
	"log/slog"

	httpadapter "atelier/contexts/market-core/marketplace-engine/adapters/http"
	"atelier/contexts/market-core/marketplace-engine/adapters/memory"
	"atelier/contexts/market-core/marketplace-engine/application"
	"atelier/contexts/market-core/marketplace-engine/application/commands"
	"atelier/contexts/market-core/marketplace-engine/application/queries"
	"atelier/contexts/market-core/marketplace-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Guard   *application.Guard
	Store   *memory.Store
}

type Dependencies struct {
	Offers      ports.OfferRepository
	Listings    ports.ListingRepository
	Trades      ports.TradeRepository
	Registry    ports.AssetRegistry
	Ledger      ports.Ledger
	Treasury    ports.Treasury
	Admin       ports.AdminStore
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	guard := application.NewGuard()
	handler := httpadapter.Handler{
		Mint: commands.MintAssetUseCase{
			Offers:   deps.Offers,
			Registry: deps.Registry,
			Ledger:   deps.Ledger,
			Treasury: deps.Treasury,
			Trades:   deps.Trades,
			Outbox:   deps.Outbox,
			Guard:    guard,
			Clock:    deps.Clock,
			IDGen:    deps.IDGenerator,
			Logger:   deps.Logger,
		},
		List: commands.ListAssetUseCase{
			Listings: deps.Listings,
			Registry: deps.Registry,
			Outbox:   deps.Outbox,
			Guard:    guard,
			Clock:    deps.Clock,
			IDGen:    deps.IDGenerator,
			Logger:   deps.Logger,
		},
		Delist: commands.DelistAssetUseCase{
			Listings: deps.Listings,
			Registry: deps.Registry,
			Outbox:   deps.Outbox,
			Guard:    guard,
			Clock:    deps.Clock,
			IDGen:    deps.IDGenerator,
			Logger:   deps.Logger,
		},
		Buy: commands.BuyAssetUseCase{
			Offers:   deps.Offers,
			Listings: deps.Listings,
			Registry: deps.Registry,
			Ledger:   deps.Ledger,
			Treasury: deps.Treasury,
			Trades:   deps.Trades,
			Outbox:   deps.Outbox,
			Guard:    guard,
			Clock:    deps.Clock,
			IDGen:    deps.IDGenerator,
			Logger:   deps.Logger,
		},
		AdminConfig: commands.AdminConfigUseCase{
			Offers:   deps.Offers,
			Registry: deps.Registry,
			Admin:    deps.Admin,
			Guard:    guard,
			Logger:   deps.Logger,
		},
		GetAsset: queries.GetAssetUseCase{
			Offers:   deps.Offers,
			Listings: deps.Listings,
			Registry: deps.Registry,
			Logger:   deps.Logger,
		},
		Listings: queries.ListListingsUseCase{
			Listings: deps.Listings,
			Logger:   deps.Logger,
		},
		Trades: queries.ListAssetTradesUseCase{
			Trades: deps.Trades,
			Logger: deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{Handler: handler, Guard: guard}
}

// NewInMemoryModule wires the engine against the in-memory store. The
// registry, ledger, and treasury collaborators still come from the caller.
func NewInMemoryModule(
	admin string,
	registry ports.AssetRegistry,
	ledger ports.Ledger,
	treasury ports.Treasury,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(admin)
	module := NewModule(Dependencies{
		Offers:      store,
		Listings:    store,
		Trades:      store,
		Registry:    registry,
		Ledger:      ledger,
		Treasury:    treasury,
		Admin:       store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
