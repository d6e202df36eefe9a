package queries

import (
	"context"
	"log/slog"
	"time"

	"atelier/contexts/market-core/marketplace-engine/ports"
)

type ListingView struct {
	Price    int64
	Seller   string
	ListedAt time.Time
	Stale    bool
}

type AssetView struct {
	AssetID          uint64
	Minted           bool
	Owner            string
	URI              string
	MintPrice        int64
	RoyaltyRecipient string
	Listing          *ListingView
}

type GetAssetUseCase struct {
	Offers   ports.OfferRepository
	Listings ports.ListingRepository
	Registry ports.AssetRegistry
	Logger   *slog.Logger
}

// Execute assembles the marketplace view of one asset id: ownership, the
// derived resource locator, the primary-sale offer, and any active listing
// (flagged stale when its seller no longer owns the asset).
func (u GetAssetUseCase) Execute(ctx context.Context, assetID uint64) (AssetView, error) {
	view := AssetView{AssetID: assetID}

	owner, minted, err := u.Registry.ResolveOwner(ctx, assetID)
	if err != nil {
		return AssetView{}, err
	}
	view.Minted = minted
	view.Owner = owner
	if minted {
		uri, err := u.Registry.AssetURI(ctx, assetID)
		if err != nil {
			return AssetView{}, err
		}
		view.URI = uri
	}

	offer, found, err := u.Offers.GetOffer(ctx, assetID)
	if err != nil {
		return AssetView{}, err
	}
	if found {
		view.MintPrice = offer.MintPrice
		view.RoyaltyRecipient = offer.RoyaltyRecipient
	}

	listing, found, err := u.Listings.GetListing(ctx, assetID)
	if err != nil {
		return AssetView{}, err
	}
	if found {
		view.Listing = &ListingView{
			Price:    listing.Price,
			Seller:   listing.Seller,
			ListedAt: listing.ListedAt,
			Stale:    !minted || !listing.Honorable(owner),
		}
	}
	return view, nil
}
