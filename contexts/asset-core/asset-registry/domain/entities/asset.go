package entities

import (
	"strings"
	"time"

	domainerrors "atelier/contexts/asset-core/asset-registry/domain/errors"
)

// Asset is a unique item with exactly one owner. Assets are minted at most
// once per id and never destroyed.
type Asset struct {
	AssetID  uint64
	Owner    string
	MintedAt time.Time
}

func NewAsset(assetID uint64, owner string, mintedAt time.Time) (Asset, error) {
	if strings.TrimSpace(owner) == "" {
		return Asset{}, domainerrors.ErrInvalidInput
	}
	return Asset{
		AssetID:  assetID,
		Owner:    strings.TrimSpace(owner),
		MintedAt: mintedAt.UTC(),
	}, nil
}
