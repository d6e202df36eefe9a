package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"atelier/contexts/finance-core/treasury/application"
	httptransport "atelier/contexts/finance-core/treasury/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) BalanceHandler(ctx context.Context) (httptransport.BalanceResponse, error) {
	balance, err := h.Service.Balance(ctx)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}

	resp := httptransport.BalanceResponse{Status: "success"}
	resp.Data.Balance = balance
	return resp, nil
}

func (h Handler) WithdrawAllHandler(ctx context.Context, caller string) (httptransport.WithdrawResponse, error) {
	withdrawn, err := h.Service.WithdrawAll(ctx, caller)
	if err != nil {
		return httptransport.WithdrawResponse{}, err
	}

	resp := httptransport.WithdrawResponse{Status: "success"}
	resp.Data.Withdrawn = withdrawn
	resp.Data.Recipient = strings.TrimSpace(caller)
	return resp, nil
}
