package httpserver

import (
	"errors"
	"net/http"

	treasuryerrors "atelier/contexts/finance-core/treasury/domain/errors"
)

func (s *Server) handleTreasuryBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.treasury.Handler.BalanceHandler(r.Context())
	if err != nil {
		writeTreasuryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTreasuryWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	resp, err := s.treasury.Handler.WithdrawAllHandler(r.Context(), caller)
	if err != nil {
		writeTreasuryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeTreasuryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, treasuryerrors.ErrUnauthorized):
		writeMarketError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, treasuryerrors.ErrTransferFailed):
		writeMarketError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	case errors.Is(err, treasuryerrors.ErrTransferRejected):
		writeMarketError(w, http.StatusBadGateway, "transfer_rejected", err.Error())
	case errors.Is(err, treasuryerrors.ErrReentrant):
		writeMarketError(w, http.StatusConflict, "reentrant_call", err.Error())
	case errors.Is(err, treasuryerrors.ErrInvalidInput):
		writeMarketError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
