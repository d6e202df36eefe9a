package commands

import (
	"context"
	"log/slog"
	"strings"

	application "atelier/contexts/market-core/marketplace-engine/application"
	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
	"atelier/contexts/market-core/marketplace-engine/ports"
)

// AdminConfigUseCase groups the administrator-only configuration writes:
// primary-sale offers, royalty recipients, the base metadata locator, and
// administrator handover.
type AdminConfigUseCase struct {
	Offers   ports.OfferRepository
	Registry ports.AssetRegistry
	Admin    ports.AdminStore
	Guard    *application.Guard
	Logger   *slog.Logger
}

// SetMintOffers applies id/price pairs independently; a later entry for a
// duplicate id overwrites the earlier one within the same call. Zero prices
// are stored as-is; purchasability is judged at mint time.
func (u AdminConfigUseCase) SetMintOffers(ctx context.Context, caller string, assetIDs []uint64, prices []int64) error {
	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := u.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if len(assetIDs) != len(prices) {
		return domainerrors.ErrInvalidInput
	}

	for i, assetID := range assetIDs {
		if err := u.Offers.UpsertMintPrice(ctx, assetID, prices[i]); err != nil {
			return err
		}
	}

	application.ResolveLogger(u.Logger).Info("mint offers configured",
		"event", "mint_offers_configured",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"pair_count", len(assetIDs),
	)
	return nil
}

// SetRoyaltyRecipients follows the same pairing contract as SetMintOffers.
func (u AdminConfigUseCase) SetRoyaltyRecipients(ctx context.Context, caller string, assetIDs []uint64, recipients []string) error {
	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := u.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if len(assetIDs) != len(recipients) {
		return domainerrors.ErrInvalidInput
	}

	for i, assetID := range assetIDs {
		if err := u.Offers.UpsertRoyaltyRecipient(ctx, assetID, strings.TrimSpace(recipients[i])); err != nil {
			return err
		}
	}

	application.ResolveLogger(u.Logger).Info("royalty recipients configured",
		"event", "royalty_recipients_configured",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"pair_count", len(assetIDs),
	)
	return nil
}

// SetBaseMetadataLocator passes the opaque locator through to the registry.
func (u AdminConfigUseCase) SetBaseMetadataLocator(ctx context.Context, caller string, uri string) error {
	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := u.requireAdmin(ctx, caller); err != nil {
		return err
	}
	return u.Registry.SetBaseLocator(ctx, uri)
}

// TransferAdmin hands the administrator capability to a successor. Only the
// current holder may transfer it.
func (u AdminConfigUseCase) TransferAdmin(ctx context.Context, caller string, newAdmin string) error {
	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := u.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(newAdmin) == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := u.Admin.SetAdmin(ctx, strings.TrimSpace(newAdmin)); err != nil {
		return err
	}

	application.ResolveLogger(u.Logger).Info("administrator transferred",
		"event", "admin_transferred",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"new_admin", strings.TrimSpace(newAdmin),
	)
	return nil
}

func (u AdminConfigUseCase) requireAdmin(ctx context.Context, caller string) error {
	admin, err := u.Admin.Admin(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(caller) == "" || strings.TrimSpace(caller) != admin {
		return domainerrors.ErrUnauthorized
	}
	return nil
}
