package httpserver

import (
	"encoding/json"
	"net/http"

	enginehttp "atelier/contexts/market-core/marketplace-engine/transport/http"
)

func (s *Server) handleSetMintOffers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	var req enginehttp.SetMintOffersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.SetMintOffersHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRoyaltyRecipients(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	var req enginehttp.SetRoyaltyRecipientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.SetRoyaltyRecipientsHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetMetadataLocator(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	var req enginehttp.SetMetadataLocatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.SetMetadataLocatorHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	var req enginehttp.TransferAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.TransferAdminHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
