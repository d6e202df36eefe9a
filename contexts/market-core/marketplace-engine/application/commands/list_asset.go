package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "atelier/contexts/market-core/marketplace-engine/application"
	"atelier/contexts/market-core/marketplace-engine/domain/entities"
	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
	"atelier/contexts/market-core/marketplace-engine/ports"
)

const listedEventType = "asset.listed"

type ListAssetCommand struct {
	AssetID uint64
	Caller  string
	Price   int64
}

type ListAssetUseCase struct {
	Listings ports.ListingRepository
	Registry ports.AssetRegistry
	Outbox   ports.OutboxWriter
	Guard    *application.Guard
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Execute creates or overwrites the asset's resale listing. Relisting at a
// new price replaces the old listing, preserving the one-listing-per-asset
// invariant.
func (u ListAssetUseCase) Execute(ctx context.Context, cmd ListAssetCommand) (entities.Listing, error) {
	if strings.TrimSpace(cmd.Caller) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidInput
	}

	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	defer release()

	owner, owned, err := u.Registry.ResolveOwner(ctx, cmd.AssetID)
	if err != nil {
		return entities.Listing{}, err
	}
	if !owned || owner != strings.TrimSpace(cmd.Caller) {
		return entities.Listing{}, domainerrors.ErrNotOwner
	}

	listing, err := entities.NewListing(cmd.AssetID, cmd.Price, cmd.Caller, u.now())
	if err != nil {
		return entities.Listing{}, err
	}
	if err := u.Listings.PutListing(ctx, listing); err != nil {
		return entities.Listing{}, err
	}
	if err := u.appendListedOutbox(ctx, listing); err != nil {
		return entities.Listing{}, err
	}

	application.ResolveLogger(u.Logger).Info("asset listed for resale",
		"event", "asset_listed",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"asset_id", listing.AssetID,
		"seller", listing.Seller,
		"price", listing.Price,
	)
	return listing, nil
}

func (u ListAssetUseCase) appendListedOutbox(ctx context.Context, listing entities.Listing) error {
	if u.Outbox == nil {
		return nil
	}
	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"asset_id": listing.AssetID,
		"seller":   listing.Seller,
		"price":    listing.Price,
	})
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        listedEventType,
		OccurredAt:       listing.ListedAt,
		SourceService:    "marketplace-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "asset_id",
		PartitionKey:     strconv.FormatUint(listing.AssetID, 10),
		Data:             data,
	})
}

func (u ListAssetUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
