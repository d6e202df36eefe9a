package application_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	assetregistry "atelier/contexts/asset-core/asset-registry"
	domainerrors "atelier/contexts/asset-core/asset-registry/domain/errors"
)

func TestMintToAssignsFirstOwnerOnce(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)
	ctx := context.Background()

	if err := module.Service.MintTo(ctx, 1, "0xalice"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	owner, err := module.Service.OwnerOf(ctx, 1)
	if err != nil || owner != "0xalice" {
		t.Fatalf("expected owner 0xalice, got %s err=%v", owner, err)
	}

	if err := module.Service.MintTo(ctx, 1, "0xbob"); !errors.Is(err, domainerrors.ErrAlreadyMinted) {
		t.Fatalf("expected ErrAlreadyMinted, got %v", err)
	}
	if err := module.Service.MintTo(ctx, 2, "  "); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank owner, got %v", err)
	}
}

func TestOwnerOfUnmintedAsset(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)

	_, err := module.Service.OwnerOf(context.Background(), 404)
	if !errors.Is(err, domainerrors.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}

	_, minted, err := module.Service.ResolveOwner(context.Background(), 404)
	if err != nil || minted {
		t.Fatalf("expected unminted without error, minted=%v err=%v", minted, err)
	}
}

func TestTransferReassignsOwnership(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)
	ctx := context.Background()

	if err := module.Service.MintTo(ctx, 1, "0xalice"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := module.Service.Transfer(ctx, "0xalice", "0xbob", 1); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	owner, err := module.Service.OwnerOf(ctx, 1)
	if err != nil || owner != "0xbob" {
		t.Fatalf("expected owner 0xbob, got %s err=%v", owner, err)
	}

	// Stale from address must not move the asset again.
	if err := module.Service.Transfer(ctx, "0xalice", "0xcarol", 1); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stale sender, got %v", err)
	}
	if err := module.Service.Transfer(ctx, "0xbob", "0xcarol", 99); !errors.Is(err, domainerrors.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestEnumerationFollowsSwapRemoveOrder(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)
	ctx := context.Background()

	for _, id := range []uint64{10, 11, 12} {
		if err := module.Service.MintTo(ctx, id, "0xalice"); err != nil {
			t.Fatalf("mint %d failed: %v", id, err)
		}
	}

	ids, err := module.Service.TokensOfOwner(ctx, "0xalice")
	if err != nil {
		t.Fatalf("tokens of owner failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []uint64{10, 11, 12}) {
		t.Fatalf("expected append order [10 11 12], got %v", ids)
	}

	// Removing the first id moves the last id into its slot.
	if err := module.Service.Transfer(ctx, "0xalice", "0xbob", 10); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	ids, err = module.Service.TokensOfOwner(ctx, "0xalice")
	if err != nil {
		t.Fatalf("tokens of owner failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []uint64{12, 11}) {
		t.Fatalf("expected swap-remove order [12 11], got %v", ids)
	}

	balance, err := module.Service.BalanceOf(ctx, "0xalice")
	if err != nil || balance != 2 {
		t.Fatalf("expected balance 2, got %d err=%v", balance, err)
	}

	assetID, err := module.Service.TokenOfOwnerByIndex(ctx, "0xalice", 0)
	if err != nil || assetID != 12 {
		t.Fatalf("expected id 12 at index 0, got %d err=%v", assetID, err)
	}
}

func TestTokenOfOwnerByIndexOutOfRange(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)
	ctx := context.Background()

	if err := module.Service.MintTo(ctx, 1, "0xalice"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := module.Service.TokenOfOwnerByIndex(ctx, "0xalice", 1); !errors.Is(err, domainerrors.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := module.Service.TokenOfOwnerByIndex(ctx, "0xalice", -1); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative index, got %v", err)
	}
	if _, err := module.Service.TokenOfOwnerByIndex(ctx, "0xnobody", 0); !errors.Is(err, domainerrors.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange for empty owner, got %v", err)
	}
}

func TestAssetURIRequiresMintedAsset(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Service.AssetURI(ctx, 7); !errors.Is(err, domainerrors.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}

	if err := module.Service.SetBaseLocator(ctx, "ipfs://catalog/"); err != nil {
		t.Fatalf("set base locator failed: %v", err)
	}
	if err := module.Service.MintTo(ctx, 7, "0xalice"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	uri, err := module.Service.AssetURI(ctx, 7)
	if err != nil {
		t.Fatalf("asset uri failed: %v", err)
	}
	if uri != "ipfs://catalog/7" {
		t.Fatalf("expected ipfs://catalog/7, got %s", uri)
	}
}

func TestAssetURIWithEmptyBaseLocator(t *testing.T) {
	module := assetregistry.NewInMemoryModule(nil)
	ctx := context.Background()

	if err := module.Service.MintTo(ctx, 3, "0xalice"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	uri, err := module.Service.AssetURI(ctx, 3)
	if err != nil {
		t.Fatalf("asset uri failed: %v", err)
	}
	if uri != "3" {
		t.Fatalf("expected bare id with empty base, got %q", uri)
	}
}
