package entities

import (
	"strings"
	"time"

	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
)

// Listing is an owner's standing offer to sell one asset at a fixed price.
// At most one listing exists per asset id; a listing whose seller no longer
// owns the asset is stale and must not be honored.
type Listing struct {
	AssetID  uint64
	Price    int64
	Seller   string
	ListedAt time.Time
}

func NewListing(assetID uint64, price int64, seller string, listedAt time.Time) (Listing, error) {
	if price <= 0 {
		return Listing{}, domainerrors.ErrInvalidPrice
	}
	if strings.TrimSpace(seller) == "" {
		return Listing{}, domainerrors.ErrInvalidInput
	}
	return Listing{
		AssetID:  assetID,
		Price:    price,
		Seller:   strings.TrimSpace(seller),
		ListedAt: listedAt.UTC(),
	}, nil
}

// Honorable reports whether the listing may back a buy given the asset's
// current owner.
func (l Listing) Honorable(currentOwner string) bool {
	return l.Price > 0 && l.Seller == currentOwner
}
