package ports

import (
	"context"
	"time"

	"atelier/contexts/market-core/marketplace-engine/domain/entities"
	"atelier/internal/shared/events"
	"atelier/internal/shared/ledger"
)

type OfferRepository interface {
	GetOffer(ctx context.Context, assetID uint64) (entities.MintOffer, bool, error)
	UpsertMintPrice(ctx context.Context, assetID uint64, price int64) error
	UpsertRoyaltyRecipient(ctx context.Context, assetID uint64, recipient string) error
}

type ListingRepository interface {
	GetListing(ctx context.Context, assetID uint64) (entities.Listing, bool, error)
	PutListing(ctx context.Context, listing entities.Listing) error
	DeleteListing(ctx context.Context, assetID uint64) error
	ListListings(ctx context.Context, limit int, offset int) ([]entities.Listing, error)
}

// Trade is the persisted receipt of one completed primary or secondary sale.
type Trade struct {
	TradeID        string
	AssetID        uint64
	Kind           string
	Price          int64
	SellerProceeds int64
	RoyaltyPaid    int64
	PlatformFee    int64
	Seller         string
	Buyer          string
	OccurredAt     time.Time
}

type TradeRepository interface {
	CreateTrade(ctx context.Context, trade Trade) error
	ListTradesByAsset(ctx context.Context, assetID uint64, limit int) ([]Trade, error)
}

// AssetRegistry is the ownership/enumeration collaborator. MintTo and
// Transfer enforce their own integrity regardless of engine preconditions.
type AssetRegistry interface {
	ResolveOwner(ctx context.Context, assetID uint64) (string, bool, error)
	MintTo(ctx context.Context, assetID uint64, owner string) error
	Transfer(ctx context.Context, from string, to string, assetID uint64) error
	AssetURI(ctx context.Context, assetID uint64) (string, error)
	SetBaseLocator(ctx context.Context, uri string) error
}

type Payment = ledger.Payment

// Ledger is the monetary transfer primitive. Pay settles the whole batch or
// none of it; a rejecting recipient fails the batch.
type Ledger interface {
	Pay(ctx context.Context, payments []Payment) error
}

type Treasury interface {
	Accrue(ctx context.Context, amount int64, source string) error
}

type AdminStore interface {
	Admin(ctx context.Context) (string, error)
	SetAdmin(ctx context.Context, address string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}
