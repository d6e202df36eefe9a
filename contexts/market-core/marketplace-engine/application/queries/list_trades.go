package queries

import (
	"context"
	"log/slog"

	"atelier/contexts/market-core/marketplace-engine/ports"
)

type ListAssetTradesUseCase struct {
	Trades ports.TradeRepository
	Logger *slog.Logger
}

func (u ListAssetTradesUseCase) Execute(ctx context.Context, assetID uint64, limit int) ([]ports.Trade, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.Trades.ListTradesByAsset(ctx, assetID, limit)
}
