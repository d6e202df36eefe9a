package httpadapter

import (
	"context"
	"log/slog"

	"atelier/contexts/asset-core/asset-registry/application"
	httptransport "atelier/contexts/asset-core/asset-registry/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) OwnerAssetsHandler(ctx context.Context, owner string) (httptransport.OwnerAssetsResponse, error) {
	ids, err := h.Service.TokensOfOwner(ctx, owner)
	if err != nil {
		return httptransport.OwnerAssetsResponse{}, err
	}

	resp := httptransport.OwnerAssetsResponse{Status: "success"}
	resp.Data.Owner = owner
	resp.Data.Count = len(ids)
	resp.Data.AssetIDs = ids
	return resp, nil
}
