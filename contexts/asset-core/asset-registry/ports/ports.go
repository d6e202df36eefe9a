package ports

import (
	"context"
	"time"

	"atelier/contexts/asset-core/asset-registry/domain/entities"
)

type Repository interface {
	Get(ctx context.Context, assetID uint64) (entities.Asset, bool, error)
	Create(ctx context.Context, asset entities.Asset) error
	UpdateOwner(ctx context.Context, assetID uint64, from string, to string) error
	CountByOwner(ctx context.Context, owner string) (int, error)
	AssetIDByOwnerIndex(ctx context.Context, owner string, index int) (uint64, bool, error)
	ListAssetIDsByOwner(ctx context.Context, owner string) ([]uint64, error)
}

type SettingsRepository interface {
	BaseLocator(ctx context.Context) (string, error)
	SetBaseLocator(ctx context.Context, uri string) error
}

type Clock interface {
	Now() time.Time
}
