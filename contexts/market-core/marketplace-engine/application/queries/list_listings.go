package queries

import (
	"context"
	"log/slog"

	"atelier/contexts/market-core/marketplace-engine/domain/entities"
	"atelier/contexts/market-core/marketplace-engine/ports"
)

type ListListingsUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u ListListingsUseCase) Execute(ctx context.Context, limit int, offset int) ([]entities.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.Listings.ListListings(ctx, limit, offset)
}
