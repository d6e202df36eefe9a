package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"atelier/contexts/market-core/marketplace-engine/domain/entities"
	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
	"atelier/contexts/market-core/marketplace-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type offerModel struct {
	AssetID          uint64 `gorm:"column:asset_id;primaryKey"`
	MintPrice        int64  `gorm:"column:mint_price"`
	RoyaltyRecipient string `gorm:"column:royalty_recipient"`
}

func (offerModel) TableName() string { return "mint_offers" }

type listingModel struct {
	AssetID  uint64    `gorm:"column:asset_id;primaryKey"`
	Price    int64     `gorm:"column:price"`
	Seller   string    `gorm:"column:seller;index"`
	ListedAt time.Time `gorm:"column:listed_at"`
}

func (listingModel) TableName() string { return "resale_listings" }

type tradeModel struct {
	TradeID        string    `gorm:"column:trade_id;primaryKey"`
	AssetID        uint64    `gorm:"column:asset_id;index"`
	Kind           string    `gorm:"column:kind"`
	Price          int64     `gorm:"column:price"`
	SellerProceeds int64     `gorm:"column:seller_proceeds"`
	RoyaltyPaid    int64     `gorm:"column:royalty_paid"`
	PlatformFee    int64     `gorm:"column:platform_fee"`
	Seller         string    `gorm:"column:seller"`
	Buyer          string    `gorm:"column:buyer"`
	OccurredAt     time.Time `gorm:"column:occurred_at"`
}

func (tradeModel) TableName() string { return "trades" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "marketplace_outbox" }

type adminModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (adminModel) TableName() string { return "marketplace_settings" }

const adminKey = "administrator"

func (r *Repository) GetOffer(ctx context.Context, assetID uint64) (entities.MintOffer, bool, error) {
	var row offerModel
	err := r.db.WithContext(ctx).First(&row, "asset_id = ?", assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.MintOffer{}, false, nil
	}
	if err != nil {
		return entities.MintOffer{}, false, err
	}
	return entities.MintOffer{
		AssetID:          row.AssetID,
		MintPrice:        row.MintPrice,
		RoyaltyRecipient: row.RoyaltyRecipient,
	}, true, nil
}

func (r *Repository) UpsertMintPrice(ctx context.Context, assetID uint64, price int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"mint_price"}),
		}).
		Create(&offerModel{AssetID: assetID, MintPrice: price}).Error
}

func (r *Repository) UpsertRoyaltyRecipient(ctx context.Context, assetID uint64, recipient string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"royalty_recipient"}),
		}).
		Create(&offerModel{AssetID: assetID, RoyaltyRecipient: recipient}).Error
}

func (r *Repository) GetListing(ctx context.Context, assetID uint64) (entities.Listing, bool, error) {
	var row listingModel
	err := r.db.WithContext(ctx).First(&row, "asset_id = ?", assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Listing{}, false, nil
	}
	if err != nil {
		return entities.Listing{}, false, err
	}
	return entities.Listing{
		AssetID:  row.AssetID,
		Price:    row.Price,
		Seller:   row.Seller,
		ListedAt: row.ListedAt.UTC(),
	}, true, nil
}

func (r *Repository) PutListing(ctx context.Context, listing entities.Listing) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "seller", "listed_at"}),
		}).
		Create(&listingModel{
			AssetID:  listing.AssetID,
			Price:    listing.Price,
			Seller:   listing.Seller,
			ListedAt: listing.ListedAt,
		}).Error
}

func (r *Repository) DeleteListing(ctx context.Context, assetID uint64) error {
	return r.db.WithContext(ctx).Delete(&listingModel{}, "asset_id = ?", assetID).Error
}

func (r *Repository) ListListings(ctx context.Context, limit int, offset int) ([]entities.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rows []listingModel
	err := r.db.WithContext(ctx).
		Order("listed_at ASC, asset_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Listing{
			AssetID:  row.AssetID,
			Price:    row.Price,
			Seller:   row.Seller,
			ListedAt: row.ListedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) CreateTrade(ctx context.Context, trade ports.Trade) error {
	err := r.db.WithContext(ctx).Create(&tradeModel{
		TradeID:        trade.TradeID,
		AssetID:        trade.AssetID,
		Kind:           trade.Kind,
		Price:          trade.Price,
		SellerProceeds: trade.SellerProceeds,
		RoyaltyPaid:    trade.RoyaltyPaid,
		PlatformFee:    trade.PlatformFee,
		Seller:         trade.Seller,
		Buyer:          trade.Buyer,
		OccurredAt:     trade.OccurredAt,
	}).Error
	if isUniqueViolation(err) {
		return domainerrors.ErrInvalidInput
	}
	return err
}

func (r *Repository) ListTradesByAsset(ctx context.Context, assetID uint64, limit int) ([]ports.Trade, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []tradeModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.Trade, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Trade{
			TradeID:        row.TradeID,
			AssetID:        row.AssetID,
			Kind:           row.Kind,
			Price:          row.Price,
			SellerProceeds: row.SellerProceeds,
			RoyaltyPaid:    row.RoyaltyPaid,
			PlatformFee:    row.PlatformFee,
			Seller:         row.Seller,
			Buyer:          row.Buyer,
			OccurredAt:     row.OccurredAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	ts := sentAt.UTC()
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": &ts,
		}).Error
}

func (r *Repository) Admin(ctx context.Context) (string, error) {
	var row adminModel
	err := r.db.WithContext(ctx).First(&row, "key = ?", adminKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (r *Repository) SetAdmin(ctx context.Context, address string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&adminModel{Key: adminKey, Value: address}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
