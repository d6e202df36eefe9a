package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"atelier/contexts/asset-core/asset-registry/domain/entities"
	domainerrors "atelier/contexts/asset-core/asset-registry/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

type assetModel struct {
	AssetID       uint64    `gorm:"column:asset_id;primaryKey"`
	Owner         string    `gorm:"column:owner;index"`
	OwnerPosition int       `gorm:"column:owner_position"`
	MintedAt      time.Time `gorm:"column:minted_at"`
}

func (assetModel) TableName() string { return "registry_assets" }

type settingModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (settingModel) TableName() string { return "registry_settings" }

const baseLocatorKey = "base_metadata_locator"

func (r *Repository) Get(ctx context.Context, assetID uint64) (entities.Asset, bool, error) {
	var row assetModel
	err := r.db.WithContext(ctx).First(&row, "asset_id = ?", assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Asset{}, false, nil
	}
	if err != nil {
		return entities.Asset{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) Create(ctx context.Context, asset entities.Asset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&assetModel{}).Where("owner = ?", asset.Owner).Count(&count).Error; err != nil {
			return err
		}
		err := tx.Create(&assetModel{
			AssetID:       asset.AssetID,
			Owner:         asset.Owner,
			OwnerPosition: int(count),
			MintedAt:      asset.MintedAt,
		}).Error
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyMinted
		}
		return err
	})
}

// UpdateOwner reassigns ownership and keeps owner_position dense with the
// same swap-remove discipline the memory store uses.
func (r *Repository) UpdateOwner(ctx context.Context, assetID uint64, from string, to string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row assetModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "asset_id = ?", assetID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrAssetNotFound
		}
		if err != nil {
			return err
		}
		if row.Owner != from {
			return domainerrors.ErrNotOwner
		}

		var fromCount int64
		if err := tx.Model(&assetModel{}).Where("owner = ?", from).Count(&fromCount).Error; err != nil {
			return err
		}
		lastPosition := int(fromCount) - 1
		if row.OwnerPosition != lastPosition {
			err := tx.Model(&assetModel{}).
				Where("owner = ? AND owner_position = ?", from, lastPosition).
				Update("owner_position", row.OwnerPosition).Error
			if err != nil {
				return err
			}
		}

		var toCount int64
		if err := tx.Model(&assetModel{}).Where("owner = ?", to).Count(&toCount).Error; err != nil {
			return err
		}
		return tx.Model(&assetModel{}).
			Where("asset_id = ?", assetID).
			Updates(map[string]any{
				"owner":          to,
				"owner_position": int(toCount),
			}).Error
	})
}

func (r *Repository) CountByOwner(ctx context.Context, owner string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&assetModel{}).Where("owner = ?", owner).Count(&count).Error
	return int(count), err
}

func (r *Repository) AssetIDByOwnerIndex(ctx context.Context, owner string, index int) (uint64, bool, error) {
	var row assetModel
	err := r.db.WithContext(ctx).
		First(&row, "owner = ? AND owner_position = ?", owner, index).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.AssetID, true, nil
}

func (r *Repository) ListAssetIDsByOwner(ctx context.Context, owner string) ([]uint64, error) {
	var rows []assetModel
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("owner_position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AssetID)
	}
	return ids, nil
}

func (r *Repository) BaseLocator(ctx context.Context) (string, error) {
	var row settingModel
	err := r.db.WithContext(ctx).First(&row, "key = ?", baseLocatorKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (r *Repository) SetBaseLocator(ctx context.Context, uri string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&settingModel{Key: baseLocatorKey, Value: uri}).Error
}

func (m assetModel) toEntity() entities.Asset {
	return entities.Asset{
		AssetID:  m.AssetID,
		Owner:    m.Owner,
		MintedAt: m.MintedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
