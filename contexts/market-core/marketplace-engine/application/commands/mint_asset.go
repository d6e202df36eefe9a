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

const mintedEventType = "asset.minted"

type MintAssetCommand struct {
	AssetID       uint64
	Caller        string
	AttachedValue int64
}

type MintAssetResult struct {
	TradeID          string
	AssetID          uint64
	Owner            string
	MintPrice        int64
	RoyaltyPaid      int64
	PlatformRetained int64
}

type MintAssetUseCase struct {
	Offers   ports.OfferRepository
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

// Execute runs the primary sale. Precondition order is fixed: offer price,
// royalty recipient, attached value, then mint uniqueness; the first failure
// aborts with no state change and no fund movement. The royalty payout runs
// before any state mutation so a rejected transfer leaves nothing to unwind.
func (u MintAssetUseCase) Execute(ctx context.Context, cmd MintAssetCommand) (MintAssetResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Caller) == "" || cmd.AttachedValue < 0 {
		return MintAssetResult{}, domainerrors.ErrInvalidInput
	}

	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		logger.Warn("mint re-entry rejected",
			"event", "mint_reentry_rejected",
			"module", "market-core/marketplace-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", cmd.Caller,
		)
		return MintAssetResult{}, err
	}
	defer release()

	offer, found, err := u.Offers.GetOffer(ctx, cmd.AssetID)
	if err != nil {
		return MintAssetResult{}, err
	}
	if !found || offer.MintPrice <= 0 {
		return MintAssetResult{}, domainerrors.ErrNotForSale
	}
	if strings.TrimSpace(offer.RoyaltyRecipient) == "" {
		return MintAssetResult{}, domainerrors.ErrNotForSale
	}
	if cmd.AttachedValue < offer.MintPrice {
		return MintAssetResult{}, domainerrors.ErrInsufficientPayment
	}
	if _, owned, err := u.Registry.ResolveOwner(ctx, cmd.AssetID); err != nil {
		return MintAssetResult{}, err
	} else if owned {
		return MintAssetResult{}, domainerrors.ErrAlreadyMinted
	}

	shares := services.Split(services.KindPrimarySale, offer.MintPrice)
	royalty := services.Amount(shares, services.RoleArtist)
	// Any overpayment above the mint price is donated: it stays in custody
	// together with the platform share.
	retained := cmd.AttachedValue - royalty

	if err := u.Ledger.Pay(ctx, []ports.Payment{
		{Recipient: offer.RoyaltyRecipient, Amount: royalty},
	}); err != nil {
		logger.Error("mint royalty payout failed",
			"event", "mint_payout_failed",
			"module", "market-core/marketplace-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"recipient", offer.RoyaltyRecipient,
			"amount", royalty,
			"error", err.Error(),
		)
		return MintAssetResult{}, domainerrors.ErrTransferFailed
	}

	// Unowned was re-checked under the guard above and all ownership writes
	// flow through guarded commands, so assignment cannot race the payout.
	caller := strings.TrimSpace(cmd.Caller)
	if err := u.Registry.MintTo(ctx, cmd.AssetID, caller); err != nil {
		// The royalty already settled and the ledger batch is not
		// reversible. Record the orphaned payout so operators can
		// reconcile it by hand.
		logger.Error("ownership assignment failed after settled royalty",
			"event", "mint_settlement_orphaned",
			"module", "market-core/marketplace-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"recipient", offer.RoyaltyRecipient,
			"royalty_paid", royalty,
			"error", err.Error(),
		)
		return MintAssetResult{}, err
	}
	if err := u.Treasury.Accrue(ctx, retained, string(services.KindPrimarySale)); err != nil {
		return MintAssetResult{}, err
	}

	tradeID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return MintAssetResult{}, err
	}
	now := u.now()
	if err := u.Trades.CreateTrade(ctx, ports.Trade{
		TradeID:     tradeID,
		AssetID:     cmd.AssetID,
		Kind:        string(services.KindPrimarySale),
		Price:       offer.MintPrice,
		RoyaltyPaid: royalty,
		PlatformFee: retained,
		Buyer:       caller,
		OccurredAt:  now,
	}); err != nil {
		return MintAssetResult{}, err
	}
	if err := u.appendMintedOutbox(ctx, cmd, offer.MintPrice, royalty, retained, tradeID, now); err != nil {
		return MintAssetResult{}, err
	}

	logger.Info("asset minted through primary sale",
		"event", "primary_sale_completed",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"asset_id", cmd.AssetID,
		"owner", caller,
		"mint_price", offer.MintPrice,
		"royalty_paid", royalty,
		"platform_retained", retained,
	)
	return MintAssetResult{
		TradeID:          tradeID,
		AssetID:          cmd.AssetID,
		Owner:            caller,
		MintPrice:        offer.MintPrice,
		RoyaltyPaid:      royalty,
		PlatformRetained: retained,
	}, nil
}

func (u MintAssetUseCase) appendMintedOutbox(
	ctx context.Context,
	cmd MintAssetCommand,
	mintPrice int64,
	royalty int64,
	retained int64,
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
		"asset_id":          cmd.AssetID,
		"owner":             strings.TrimSpace(cmd.Caller),
		"mint_price":        mintPrice,
		"royalty_paid":      royalty,
		"platform_retained": retained,
		"trade_id":          tradeID,
	})
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        mintedEventType,
		OccurredAt:       occurredAt,
		SourceService:    "marketplace-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "asset_id",
		PartitionKey:     strconv.FormatUint(cmd.AssetID, 10),
		Data:             data,
	})
}

func (u MintAssetUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
