package commands_test

import (
	"context"
	"errors"
	"testing"

	"atelier/contexts/market-core/marketplace-engine/application/commands"
	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
)

// mintAndList gives seller a freshly minted asset and an active listing.
func mintAndList(t *testing.T, f *fixture, assetID uint64, artist string, seller string, listPrice int64) {
	t.Helper()
	f.configureOffer(t, assetID, 100, artist)
	f.mint(t, assetID, seller, 100)
	f.list(t, assetID, seller, listPrice)
}

func TestBuyAssetHappyPath(t *testing.T) {
	f := newFixture(t)
	mintAndList(t, f, 1, "0xartist", "0xseller", 50)

	result, err := f.module.Handler.Buy.Execute(context.Background(), commands.BuyAssetCommand{
		AssetID:       1,
		Caller:        "0xbuyer",
		AttachedValue: 50,
	})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	if result.Seller != "0xseller" || result.Buyer != "0xbuyer" || result.Price != 50 {
		t.Fatalf("unexpected buy result: %+v", result)
	}
	if result.SellerProceeds != 45 || result.RoyaltyPaid != 3 || result.PlatformFee != 2 {
		t.Fatalf("unexpected resale split: %+v", result)
	}

	if got := f.ledger.BalanceOf("0xseller"); got != 45 {
		t.Fatalf("expected seller balance 45, got %d", got)
	}
	// 75 royalty from the mint plus 3 from the resale.
	if got := f.ledger.BalanceOf("0xartist"); got != 78 {
		t.Fatalf("expected artist balance 78, got %d", got)
	}
	// 25 retained from the mint plus the 2 resale platform fee.
	if got := f.custodyBalance(t); got != 27 {
		t.Fatalf("expected custody balance 27, got %d", got)
	}

	owner, err := f.registry.Service.OwnerOf(context.Background(), 1)
	if err != nil || owner != "0xbuyer" {
		t.Fatalf("expected buyer to own asset, owner=%s err=%v", owner, err)
	}
	if _, found, err := f.store.GetListing(context.Background(), 1); err != nil || found {
		t.Fatalf("expected listing cleared, found=%v err=%v", found, err)
	}

	trades, err := f.store.ListTradesByAsset(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list trades failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected mint and resale trades, got %d", len(trades))
	}
}

func TestBuyAssetWrongPayment(t *testing.T) {
	f := newFixture(t)
	mintAndList(t, f, 2, "0xartist", "0xseller", 50)
	ctx := context.Background()

	for _, value := range []int64{49, 51, 0} {
		_, err := f.module.Handler.Buy.Execute(ctx, commands.BuyAssetCommand{
			AssetID:       2,
			Caller:        "0xbuyer",
			AttachedValue: value,
		})
		if !errors.Is(err, domainerrors.ErrWrongPayment) {
			t.Fatalf("expected ErrWrongPayment for value %d, got %v", value, err)
		}
	}

	if _, found, err := f.store.GetListing(ctx, 2); err != nil || !found {
		t.Fatalf("expected listing to survive failed buys, found=%v err=%v", found, err)
	}
}

func TestBuyAssetNotListed(t *testing.T) {
	f := newFixture(t)
	f.configureOffer(t, 3, 100, "0xartist")
	f.mint(t, 3, "0xseller", 100)

	_, err := f.module.Handler.Buy.Execute(context.Background(), commands.BuyAssetCommand{
		AssetID:       3,
		Caller:        "0xbuyer",
		AttachedValue: 50,
	})
	if !errors.Is(err, domainerrors.ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale without a listing, got %v", err)
	}
}

func TestBuyAssetStaleListingNotHonored(t *testing.T) {
	f := newFixture(t)
	mintAndList(t, f, 4, "0xartist", "0xseller", 50)
	ctx := context.Background()

	// Ownership moves outside the marketplace; the listing goes stale.
	if err := f.registry.Service.Transfer(ctx, "0xseller", "0xother", 4); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	_, err := f.module.Handler.Buy.Execute(ctx, commands.BuyAssetCommand{
		AssetID:       4,
		Caller:        "0xbuyer",
		AttachedValue: 50,
	})
	if !errors.Is(err, domainerrors.ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale for stale listing, got %v", err)
	}
	if got := f.ledger.BalanceOf("0xseller"); got != 0 {
		t.Fatalf("expected no payout to stale seller, got %d", got)
	}
}

func TestBuyAssetBlankRoyaltyRecipientFoldsIntoCustody(t *testing.T) {
	f := newFixture(t)
	mintAndList(t, f, 5, "0xartist", "0xseller", 50)
	ctx := context.Background()

	// The artist designation is cleared after the mint.
	if err := f.module.Handler.AdminConfig.SetRoyaltyRecipients(ctx, adminAddress, []uint64{5}, []string{""}); err != nil {
		t.Fatalf("clear royalty recipient failed: %v", err)
	}
	custodyBefore := f.custodyBalance(t)

	result, err := f.module.Handler.Buy.Execute(ctx, commands.BuyAssetCommand{
		AssetID:       5,
		Caller:        "0xbuyer",
		AttachedValue: 50,
	})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	if result.RoyaltyPaid != 0 || result.PlatformFee != 5 {
		t.Fatalf("expected royalty folded into platform fee, got %+v", result)
	}
	if got := f.custodyBalance(t) - custodyBefore; got != 5 {
		t.Fatalf("expected custody to grow by 5, got %d", got)
	}
	// Artist keeps only the mint royalty.
	if got := f.ledger.BalanceOf("0xartist"); got != 75 {
		t.Fatalf("expected artist balance 75, got %d", got)
	}
}

func TestBuyAssetRejectedPayoutAbortsWithoutStateChange(t *testing.T) {
	f := newFixture(t)
	mintAndList(t, f, 6, "0xartist", "0xseller", 50)
	f.ledger.RejectPaymentsTo("0xseller")
	ctx := context.Background()
	custodyBefore := f.custodyBalance(t)

	_, err := f.module.Handler.Buy.Execute(ctx, commands.BuyAssetCommand{
		AssetID:       6,
		Caller:        "0xbuyer",
		AttachedValue: 50,
	})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	owner, err := f.registry.Service.OwnerOf(ctx, 6)
	if err != nil || owner != "0xseller" {
		t.Fatalf("expected seller to keep ownership, owner=%s err=%v", owner, err)
	}
	if _, found, err := f.store.GetListing(ctx, 6); err != nil || !found {
		t.Fatalf("expected listing to survive, found=%v err=%v", found, err)
	}
	// Artist was not paid either: the batch settles all-or-nothing.
	if got := f.ledger.BalanceOf("0xartist"); got != 75 {
		t.Fatalf("expected artist balance unchanged at 75, got %d", got)
	}
	if got := f.custodyBalance(t); got != custodyBefore {
		t.Fatalf("expected custody unchanged, got %d", got)
	}
}

func TestBuyAssetRejectsReentrantCallback(t *testing.T) {
	f := newFixture(t)
	mintAndList(t, f, 7, "0xartist", "0xseller", 50)

	var nested error
	f.ledger.SetPaymentHook("0xseller", func(ctx context.Context) {
		_, nested = f.module.Handler.Buy.Execute(ctx, commands.BuyAssetCommand{
			AssetID:       7,
			Caller:        "0xseller",
			AttachedValue: 50,
		})
	})

	if _, err := f.module.Handler.Buy.Execute(context.Background(), commands.BuyAssetCommand{
		AssetID:       7,
		Caller:        "0xbuyer",
		AttachedValue: 50,
	}); err != nil {
		t.Fatalf("outer buy failed: %v", err)
	}

	if !errors.Is(nested, domainerrors.ErrReentrant) {
		t.Fatalf("expected nested buy to fail with ErrReentrant, got %v", nested)
	}
}
