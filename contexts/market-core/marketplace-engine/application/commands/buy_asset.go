package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "atelier/contexts/market-core/marketplace-engine/application"
	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
	"atelier/contexts/market-core/marketplace-engine/domain/services"
	"atelier/contexts/market-core/marketplace-engine/ports"
)

const soldEventType = "asset.sold"

type BuyAssetCommand struct {
	AssetID       uint64
	Caller        string
	AttachedValue int64
}

type BuyAssetResult struct {
	TradeID        string
	AssetID        uint64
	Seller         string
	Buyer          string
	Price          int64
	SellerProceeds int64
	RoyaltyPaid    int64
	PlatformFee    int64
}

type BuyAssetUseCase struct {
	Offers   ports.OfferRepository
	Listings ports.ListingRepository
	Registry ports.AssetRegistry
	Ledger   ports.Ledger
	Treasury ports.Treasury
	Trades   ports.TradeRepository
	Outbox   ports.OutboxWriter
	Guard    *application.Guard
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Execute runs a secondary sale against the active listing. The listing is
// honored only while its seller still owns the asset; a stale listing fails
// exactly like a missing one. The attached value must equal the listing
// price; no overpayment path exists on resale. Both payouts settle in one
// all-or-nothing batch before ownership or the listing change.
func (u BuyAssetUseCase) Execute(ctx context.Context, cmd BuyAssetCommand) (BuyAssetResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Caller) == "" || cmd.AttachedValue < 0 {
		return BuyAssetResult{}, domainerrors.ErrInvalidInput
	}

	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		logger.Warn("buy re-entry rejected",
			"event", "buy_reentry_rejected",
			"module", "market-core/marketplace-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", cmd.Caller,
		)
		return BuyAssetResult{}, err
	}
	defer release()

	listing, found, err := u.Listings.GetListing(ctx, cmd.AssetID)
	if err != nil {
		return BuyAssetResult{}, err
	}
	if !found || listing.Price <= 0 {
		return BuyAssetResult{}, domainerrors.ErrNotForSale
	}
	owner, owned, err := u.Registry.ResolveOwner(ctx, cmd.AssetID)
	if err != nil {
		return BuyAssetResult{}, err
	}
	if !owned || !listing.Honorable(owner) {
		return BuyAssetResult{}, domainerrors.ErrNotForSale
	}
	if cmd.AttachedValue != listing.Price {
		return BuyAssetResult{}, domainerrors.ErrWrongPayment
	}

	offer, _, err := u.Offers.GetOffer(ctx, cmd.AssetID)
	if err != nil {
		return BuyAssetResult{}, err
	}

	shares := services.Split(services.KindResale, listing.Price)
	proceeds := services.Amount(shares, services.RoleSeller)
	royalty := services.Amount(shares, services.RoleArtist)
	platformFee := services.Amount(shares, services.RolePlatform)

	payments := []ports.Payment{{Recipient: listing.Seller, Amount: proceeds}}
	recipient := strings.TrimSpace(offer.RoyaltyRecipient)
	if recipient != "" {
		payments = append(payments, ports.Payment{Recipient: recipient, Amount: royalty})
	} else {
		// No designated artist: the royalty share stays in custody rather
		// than being paid to a blank address.
		platformFee += royalty
		royalty = 0
	}

	if err := u.Ledger.Pay(ctx, payments); err != nil {
		logger.Error("resale payout failed",
			"event", "buy_payout_failed",
			"module", "market-core/marketplace-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"seller", listing.Seller,
			"price", listing.Price,
			"error", err.Error(),
		)
		return BuyAssetResult{}, domainerrors.ErrTransferFailed
	}

	buyer := strings.TrimSpace(cmd.Caller)
	if err := u.Registry.Transfer(ctx, listing.Seller, buyer, cmd.AssetID); err != nil {
		// Seller and artist were already paid and the ledger batch is
		// not reversible. Record the orphaned payout so operators can
		// reconcile it by hand.
		logger.Error("ownership transfer failed after settled payouts",
			"event", "buy_settlement_orphaned",
			"module", "market-core/marketplace-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"seller", listing.Seller,
			"buyer", buyer,
			"seller_proceeds", proceeds,
			"royalty_paid", royalty,
			"error", err.Error(),
		)
		return BuyAssetResult{}, err
	}
	if err := u.Listings.DeleteListing(ctx, cmd.AssetID); err != nil {
		return BuyAssetResult{}, err
	}
	if err := u.Treasury.Accrue(ctx, platformFee, string(services.KindResale)); err != nil {
		return BuyAssetResult{}, err
	}

	tradeID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return BuyAssetResult{}, err
	}
	now := u.now()
	if err := u.Trades.CreateTrade(ctx, ports.Trade{
		TradeID:        tradeID,
		AssetID:        cmd.AssetID,
		Kind:           string(services.KindResale),
		Price:          listing.Price,
		SellerProceeds: proceeds,
		RoyaltyPaid:    royalty,
		PlatformFee:    platformFee,
		Seller:         listing.Seller,
		Buyer:          buyer,
		OccurredAt:     now,
	}); err != nil {
		return BuyAssetResult{}, err
	}
	if err := u.appendSoldOutbox(ctx, cmd.AssetID, listing.Seller, buyer, listing.Price, proceeds, royalty, platformFee, tradeID, now); err != nil {
		return BuyAssetResult{}, err
	}

	logger.Info("asset sold through resale",
		"event", "resale_completed",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"asset_id", cmd.AssetID,
		"seller", listing.Seller,
		"buyer", buyer,
		"price", listing.Price,
		"seller_proceeds", proceeds,
		"royalty_paid", royalty,
		"platform_fee", platformFee,
	)
	return BuyAssetResult{
		TradeID:        tradeID,
		AssetID:        cmd.AssetID,
		Seller:         listing.Seller,
		Buyer:          buyer,
		Price:          listing.Price,
		SellerProceeds: proceeds,
		RoyaltyPaid:    royalty,
		PlatformFee:    platformFee,
	}, nil
}

func (u BuyAssetUseCase) appendSoldOutbox(
	ctx context.Context,
	assetID uint64,
	seller string,
	buyer string,
	price int64,
	proceeds int64,
	royalty int64,
	platformFee int64,
	tradeID string,
	occurredAt time.Time,
) error {
	if u.Outbox == nil {
		return nil
	}
	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"asset_id":        assetID,
		"seller":          seller,
		"buyer":           buyer,
		"price":           price,
		"seller_proceeds": proceeds,
		"royalty_paid":    royalty,
		"platform_fee":    platformFee,
		"trade_id":        tradeID,
	})
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        soldEventType,
		OccurredAt:       occurredAt,
		SourceService:    "marketplace-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "asset_id",
		PartitionKey:     strconv.FormatUint(assetID, 10),
		Data:             data,
	})
}

func (u BuyAssetUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
