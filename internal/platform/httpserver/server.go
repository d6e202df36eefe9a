package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	assetregistry "atelier/contexts/asset-core/asset-registry"
	registryerrors "atelier/contexts/asset-core/asset-registry/domain/errors"
	treasury "atelier/contexts/finance-core/treasury"
	marketplaceengine "atelier/contexts/market-core/marketplace-engine"
	engineerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
	enginehttp "atelier/contexts/market-core/marketplace-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "atelier/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	marketplace marketplaceengine.Module
	registry    assetregistry.Module
	treasury    treasury.Module
}

func New(
	marketplace marketplaceengine.Module,
	registry assetregistry.Module,
	treasuryModule treasury.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		marketplace: marketplace,
		registry:    registry,
		treasury:    treasuryModule,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the routed mux for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/assets/{asset_id}/mint", s.handleMintAsset)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/list", s.handleListAsset)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/delist", s.handleDelistAsset)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/buy", s.handleBuyAsset)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}", s.handleGetAsset)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}/trades", s.handleListAssetTrades)
	s.mux.HandleFunc("GET /v1/listings", s.handleListListings)
	s.mux.HandleFunc("GET /v1/owners/{address}/assets", s.handleOwnerAssets)

	s.mux.HandleFunc("POST /v1/admin/mint-offers", s.handleSetMintOffers)
	s.mux.HandleFunc("POST /v1/admin/royalty-recipients", s.handleSetRoyaltyRecipients)
	s.mux.HandleFunc("PUT /v1/admin/metadata-locator", s.handleSetMetadataLocator)
	s.mux.HandleFunc("POST /v1/admin/transfer", s.handleTransferAdmin)

	s.mux.HandleFunc("GET /v1/treasury/balance", s.handleTreasuryBalance)
	s.mux.HandleFunc("POST /v1/treasury/withdraw", s.handleTreasuryWithdraw)
}

func (s *Server) handleMintAsset(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}
	assetID, ok := assetIDFromPath(w, r)
	if !ok {
		return
	}

	var req enginehttp.MintAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.MintAssetHandler(r.Context(), caller, assetID, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAsset(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}
	assetID, ok := assetIDFromPath(w, r)
	if !ok {
		return
	}

	var req enginehttp.ListAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.ListAssetHandler(r.Context(), caller, assetID, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelistAsset(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}
	assetID, ok := assetIDFromPath(w, r)
	if !ok {
		return
	}

	resp, err := s.marketplace.Handler.DelistAssetHandler(r.Context(), caller, assetID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuyAsset(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}
	assetID, ok := assetIDFromPath(w, r)
	if !ok {
		return
	}

	var req enginehttp.BuyAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.BuyAssetHandler(r.Context(), caller, assetID, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	assetID, ok := assetIDFromPath(w, r)
	if !ok {
		return
	}

	resp, err := s.marketplace.Handler.GetAssetHandler(r.Context(), assetID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAssetTrades(w http.ResponseWriter, r *http.Request) {
	assetID, ok := assetIDFromPath(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit")

	resp, err := s.marketplace.Handler.ListAssetTradesHandler(r.Context(), assetID, limit)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	resp, err := s.marketplace.Handler.ListListingsHandler(r.Context(), limit, offset)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOwnerAssets(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("address")

	resp, err := s.registry.Handler.OwnerAssetsHandler(r.Context(), owner)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func callerAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return "", false
	}
	return caller, true
}

func assetIDFromPath(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	assetID, err := strconv.ParseUint(r.PathValue("asset_id"), 10, 64)
	if err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_asset_id", "asset_id must be an unsigned integer")
		return 0, false
	}
	return assetID, true
}

func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMarketError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, enginehttp.ErrorResponse{Code: code, Message: message})
}

func writeMarketDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engineerrors.ErrUnauthorized):
		writeMarketError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, engineerrors.ErrNotForSale):
		writeMarketError(w, http.StatusConflict, "not_for_sale", err.Error())
	case errors.Is(err, engineerrors.ErrAlreadyMinted):
		writeMarketError(w, http.StatusConflict, "already_minted", err.Error())
	case errors.Is(err, engineerrors.ErrInsufficientPayment):
		writeMarketError(w, http.StatusPaymentRequired, "insufficient_payment", err.Error())
	case errors.Is(err, engineerrors.ErrWrongPayment):
		writeMarketError(w, http.StatusPaymentRequired, "wrong_payment", err.Error())
	case errors.Is(err, engineerrors.ErrInvalidPrice):
		writeMarketError(w, http.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, engineerrors.ErrNotOwner):
		writeMarketError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, engineerrors.ErrReentrant):
		writeMarketError(w, http.StatusConflict, "reentrant", err.Error())
	case errors.Is(err, engineerrors.ErrTransferFailed):
		writeMarketError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	case errors.Is(err, engineerrors.ErrInvalidInput):
		writeMarketError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrAssetNotFound):
		writeMarketError(w, http.StatusNotFound, "asset_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrIndexOutOfRange):
		writeMarketError(w, http.StatusNotFound, "index_out_of_range", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidInput):
		writeMarketError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
