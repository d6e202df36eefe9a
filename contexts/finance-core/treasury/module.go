package treasury

import (
	"log/slog"

	httpadapter "atelier/contexts/finance-core/treasury/adapters/http"
	"atelier/contexts/finance-core/treasury/adapters/memory"
	"atelier/contexts/finance-core/treasury/application"
	"atelier/contexts/finance-core/treasury/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
	Ledger  *memory.Ledger
}

type Dependencies struct {
	Custody     ports.CustodyRepository
	Ledger      ports.Ledger
	Admin       ports.AdminStore
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Custody: deps.Custody,
		Ledger:  deps.Ledger,
		Admin:   deps.Admin,
		Outbox:  deps.Outbox,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Logger:  deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the treasury against the in-memory custody store
// and ledger. The admin store is shared with the marketplace engine, so it
// comes from the caller.
func NewInMemoryModule(admin ports.AdminStore, outbox ports.OutboxWriter, logger *slog.Logger) Module {
	store := memory.NewStore()
	moneyLedger := memory.NewLedger()
	module := NewModule(Dependencies{
		Custody:     store,
		Ledger:      moneyLedger,
		Admin:       admin,
		Outbox:      outbox,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Ledger = moneyLedger
	return module
}
