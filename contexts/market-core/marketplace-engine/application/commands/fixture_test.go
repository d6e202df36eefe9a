package commands_test

import (
	"context"
	"testing"

	assetregistry "atelier/contexts/asset-core/asset-registry"
	treasurymemory "atelier/contexts/finance-core/treasury/adapters/memory"
	treasuryapplication "atelier/contexts/finance-core/treasury/application"
	marketplaceengine "atelier/contexts/market-core/marketplace-engine"
	enginememory "atelier/contexts/market-core/marketplace-engine/adapters/memory"
	"atelier/contexts/market-core/marketplace-engine/application/commands"
)

const adminAddress = "0xadmin"

// fixture wires the engine against real in-memory collaborators: the
// registry module, the custody store, and the rejectable ledger.
type fixture struct {
	module   marketplaceengine.Module
	store    *enginememory.Store
	registry assetregistry.Module
	ledger   *treasurymemory.Ledger
	custody  *treasurymemory.Store
	treasury *treasuryapplication.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	engineStore := enginememory.NewStore(adminAddress)
	registryModule := assetregistry.NewInMemoryModule(nil)
	moneyLedger := treasurymemory.NewLedger()
	custodyStore := treasurymemory.NewStore()

	treasuryService := &treasuryapplication.Service{
		Custody: custodyStore,
		Ledger:  moneyLedger,
		Admin:   engineStore,
		Outbox:  engineStore,
		Clock:   custodyStore,
		IDGen:   custodyStore,
	}

	module := marketplaceengine.NewModule(marketplaceengine.Dependencies{
		Offers:      engineStore,
		Listings:    engineStore,
		Trades:      engineStore,
		Registry:    registryModule.Service,
		Ledger:      moneyLedger,
		Treasury:    treasuryService,
		Admin:       engineStore,
		Outbox:      engineStore,
		Clock:       engineStore,
		IDGenerator: engineStore,
	})
	module.Store = engineStore

	return &fixture{
		module:   module,
		store:    engineStore,
		registry: registryModule,
		ledger:   moneyLedger,
		custody:  custodyStore,
		treasury: treasuryService,
	}
}

func (f *fixture) configureOffer(t *testing.T, assetID uint64, price int64, recipient string) {
	t.Helper()
	ctx := context.Background()
	if err := f.module.Handler.AdminConfig.SetMintOffers(ctx, adminAddress, []uint64{assetID}, []int64{price}); err != nil {
		t.Fatalf("set mint offer failed: %v", err)
	}
	if recipient != "" {
		if err := f.module.Handler.AdminConfig.SetRoyaltyRecipients(ctx, adminAddress, []uint64{assetID}, []string{recipient}); err != nil {
			t.Fatalf("set royalty recipient failed: %v", err)
		}
	}
}

func (f *fixture) mint(t *testing.T, assetID uint64, caller string, value int64) commands.MintAssetResult {
	t.Helper()
	result, err := f.module.Handler.Mint.Execute(context.Background(), commands.MintAssetCommand{
		AssetID:       assetID,
		Caller:        caller,
		AttachedValue: value,
	})
	if err != nil {
		t.Fatalf("mint asset %d failed: %v", assetID, err)
	}
	return result
}

func (f *fixture) list(t *testing.T, assetID uint64, caller string, price int64) {
	t.Helper()
	if _, err := f.module.Handler.List.Execute(context.Background(), commands.ListAssetCommand{
		AssetID: assetID,
		Caller:  caller,
		Price:   price,
	}); err != nil {
		t.Fatalf("list asset %d failed: %v", assetID, err)
	}
}

func (f *fixture) custodyBalance(t *testing.T) int64 {
	t.Helper()
	balance, err := f.custody.Balance(context.Background())
	if err != nil {
		t.Fatalf("custody balance failed: %v", err)
	}
	return balance
}

func (f *fixture) outboxEventTypes(t *testing.T) []string {
	t.Helper()
	pending, err := f.store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	types := make([]string, 0, len(pending))
	for _, message := range pending {
		types = append(types, message.EventType)
	}
	return types
}
