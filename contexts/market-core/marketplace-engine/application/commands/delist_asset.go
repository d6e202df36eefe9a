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
	"atelier/contexts/market-core/marketplace-engine/ports"
)

const delistedEventType = "asset.delisted"

type DelistAssetCommand struct {
	AssetID uint64
	Caller  string
}

type DelistAssetUseCase struct {
	Listings ports.ListingRepository
	Registry ports.AssetRegistry
	Outbox   ports.OutboxWriter
	Guard    *application.Guard
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Execute removes the asset's listing. Delisting when no listing exists is a
// successful no-op; only the ownership gate can fail.
func (u DelistAssetUseCase) Execute(ctx context.Context, cmd DelistAssetCommand) error {
	if strings.TrimSpace(cmd.Caller) == "" {
		return domainerrors.ErrInvalidInput
	}

	ctx, release, err := u.Guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	owner, owned, err := u.Registry.ResolveOwner(ctx, cmd.AssetID)
	if err != nil {
		return err
	}
	if !owned || owner != strings.TrimSpace(cmd.Caller) {
		return domainerrors.ErrNotOwner
	}

	_, existed, err := u.Listings.GetListing(ctx, cmd.AssetID)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}
	if err := u.Listings.DeleteListing(ctx, cmd.AssetID); err != nil {
		return err
	}
	if err := u.appendDelistedOutbox(ctx, cmd); err != nil {
		return err
	}

	application.ResolveLogger(u.Logger).Info("asset delisted",
		"event", "asset_delisted",
		"module", "market-core/marketplace-engine",
		"layer", "application",
		"asset_id", cmd.AssetID,
		"owner", strings.TrimSpace(cmd.Caller),
	)
	return nil
}

func (u DelistAssetUseCase) appendDelistedOutbox(ctx context.Context, cmd DelistAssetCommand) error {
	if u.Outbox == nil {
		return nil
	}
	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"asset_id": cmd.AssetID,
		"owner":    strings.TrimSpace(cmd.Caller),
	})
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        delistedEventType,
		OccurredAt:       u.now(),
		SourceService:    "marketplace-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "asset_id",
		PartitionKey:     strconv.FormatUint(cmd.AssetID, 10),
		Data:             data,
	})
}

func (u DelistAssetUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
