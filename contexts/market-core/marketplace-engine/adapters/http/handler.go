package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"atelier/contexts/market-core/marketplace-engine/application/commands"
	"atelier/contexts/market-core/marketplace-engine/application/queries"
	"atelier/contexts/market-core/marketplace-engine/domain/entities"
	httptransport "atelier/contexts/market-core/marketplace-engine/transport/http"
)

type Handler struct {
	Mint        commands.MintAssetUseCase
	List        commands.ListAssetUseCase
	Delist      commands.DelistAssetUseCase
	Buy         commands.BuyAssetUseCase
	AdminConfig commands.AdminConfigUseCase
	GetAsset    queries.GetAssetUseCase
	Listings    queries.ListListingsUseCase
	Trades      queries.ListAssetTradesUseCase
	Logger      *slog.Logger
}

func (h Handler) MintAssetHandler(
	ctx context.Context,
	caller string,
	assetID uint64,
	req httptransport.MintAssetRequest,
) (httptransport.MintAssetResponse, error) {
	result, err := h.Mint.Execute(ctx, commands.MintAssetCommand{
		AssetID:       assetID,
		Caller:        caller,
		AttachedValue: req.AttachedValue,
	})
	if err != nil {
		return httptransport.MintAssetResponse{}, err
	}

	resp := httptransport.MintAssetResponse{Status: "success"}
	resp.Data.TradeID = result.TradeID
	resp.Data.AssetID = result.AssetID
	resp.Data.Owner = result.Owner
	resp.Data.MintPrice = result.MintPrice
	resp.Data.RoyaltyPaid = result.RoyaltyPaid
	resp.Data.PlatformRetained = result.PlatformRetained
	return resp, nil
}

func (h Handler) ListAssetHandler(
	ctx context.Context,
	caller string,
	assetID uint64,
	req httptransport.ListAssetRequest,
) (httptransport.ListAssetResponse, error) {
	listing, err := h.List.Execute(ctx, commands.ListAssetCommand{
		AssetID: assetID,
		Caller:  caller,
		Price:   req.Price,
	})
	if err != nil {
		return httptransport.ListAssetResponse{}, err
	}
	return httptransport.ListAssetResponse{
		Status: "success",
		Data:   toListingDTO(listing),
	}, nil
}

func (h Handler) DelistAssetHandler(
	ctx context.Context,
	caller string,
	assetID uint64,
) (httptransport.DelistAssetResponse, error) {
	err := h.Delist.Execute(ctx, commands.DelistAssetCommand{
		AssetID: assetID,
		Caller:  caller,
	})
	if err != nil {
		return httptransport.DelistAssetResponse{}, err
	}
	return httptransport.DelistAssetResponse{Status: "success"}, nil
}

func (h Handler) BuyAssetHandler(
	ctx context.Context,
	caller string,
	assetID uint64,
	req httptransport.BuyAssetRequest,
) (httptransport.BuyAssetResponse, error) {
	result, err := h.Buy.Execute(ctx, commands.BuyAssetCommand{
		AssetID:       assetID,
		Caller:        caller,
		AttachedValue: req.AttachedValue,
	})
	if err != nil {
		return httptransport.BuyAssetResponse{}, err
	}

	resp := httptransport.BuyAssetResponse{Status: "success"}
	resp.Data.TradeID = result.TradeID
	resp.Data.AssetID = result.AssetID
	resp.Data.Seller = result.Seller
	resp.Data.Buyer = result.Buyer
	resp.Data.Price = result.Price
	resp.Data.SellerProceeds = result.SellerProceeds
	resp.Data.RoyaltyPaid = result.RoyaltyPaid
	resp.Data.PlatformFee = result.PlatformFee
	return resp, nil
}

func (h Handler) GetAssetHandler(ctx context.Context, assetID uint64) (httptransport.AssetResponse, error) {
	view, err := h.GetAsset.Execute(ctx, assetID)
	if err != nil {
		return httptransport.AssetResponse{}, err
	}

	resp := httptransport.AssetResponse{Status: "success"}
	resp.Data.AssetID = view.AssetID
	resp.Data.Minted = view.Minted
	resp.Data.Owner = view.Owner
	resp.Data.URI = view.URI
	resp.Data.MintPrice = view.MintPrice
	resp.Data.RoyaltyRecipient = view.RoyaltyRecipient
	if view.Listing != nil {
		resp.Data.Listing = &httptransport.ListingDTO{
			AssetID:  view.AssetID,
			Price:    view.Listing.Price,
			Seller:   view.Listing.Seller,
			ListedAt: view.Listing.ListedAt.UTC().Format(time.RFC3339),
			Stale:    view.Listing.Stale,
		}
	}
	return resp, nil
}

func (h Handler) ListListingsHandler(ctx context.Context, limit int, offset int) (httptransport.ListingsResponse, error) {
	items, err := h.Listings.Execute(ctx, limit, offset)
	if err != nil {
		return httptransport.ListingsResponse{}, err
	}

	resp := httptransport.ListingsResponse{
		Status: "success",
		Data:   make([]httptransport.ListingDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toListingDTO(item))
	}
	return resp, nil
}

func (h Handler) ListAssetTradesHandler(ctx context.Context, assetID uint64, limit int) (httptransport.TradesResponse, error) {
	items, err := h.Trades.Execute(ctx, assetID, limit)
	if err != nil {
		return httptransport.TradesResponse{}, err
	}

	resp := httptransport.TradesResponse{
		Status: "success",
		Data:   make([]httptransport.TradeDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, httptransport.TradeDTO{
			TradeID:        item.TradeID,
			AssetID:        item.AssetID,
			Kind:           item.Kind,
			Price:          item.Price,
			SellerProceeds: item.SellerProceeds,
			RoyaltyPaid:    item.RoyaltyPaid,
			PlatformFee:    item.PlatformFee,
			Seller:         item.Seller,
			Buyer:          item.Buyer,
			OccurredAt:     item.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) SetMintOffersHandler(
	ctx context.Context,
	caller string,
	req httptransport.SetMintOffersRequest,
) (httptransport.AdminActionResponse, error) {
	if err := h.AdminConfig.SetMintOffers(ctx, caller, req.AssetIDs, req.Prices); err != nil {
		return httptransport.AdminActionResponse{}, err
	}
	return httptransport.AdminActionResponse{Status: "success"}, nil
}

func (h Handler) SetRoyaltyRecipientsHandler(
	ctx context.Context,
	caller string,
	req httptransport.SetRoyaltyRecipientsRequest,
) (httptransport.AdminActionResponse, error) {
	if err := h.AdminConfig.SetRoyaltyRecipients(ctx, caller, req.AssetIDs, req.Recipients); err != nil {
		return httptransport.AdminActionResponse{}, err
	}
	return httptransport.AdminActionResponse{Status: "success"}, nil
}

func (h Handler) SetMetadataLocatorHandler(
	ctx context.Context,
	caller string,
	req httptransport.SetMetadataLocatorRequest,
) (httptransport.AdminActionResponse, error) {
	if err := h.AdminConfig.SetBaseMetadataLocator(ctx, caller, req.URI); err != nil {
		return httptransport.AdminActionResponse{}, err
	}
	return httptransport.AdminActionResponse{Status: "success"}, nil
}

func (h Handler) TransferAdminHandler(
	ctx context.Context,
	caller string,
	req httptransport.TransferAdminRequest,
) (httptransport.AdminActionResponse, error) {
	if err := h.AdminConfig.TransferAdmin(ctx, caller, req.NewAdmin); err != nil {
		return httptransport.AdminActionResponse{}, err
	}
	return httptransport.AdminActionResponse{Status: "success"}, nil
}

func toListingDTO(listing entities.Listing) httptransport.ListingDTO {
	return httptransport.ListingDTO{
		AssetID:  listing.AssetID,
		Price:    listing.Price,
		Seller:   listing.Seller,
		ListedAt: listing.ListedAt.UTC().Format(time.RFC3339),
	}
}
