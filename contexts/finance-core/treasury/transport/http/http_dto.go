package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		Balance int64 `json:"balance"`
	} `json:"data"`
}

type WithdrawResponse struct {
	Status string `json:"status"`
	Data   struct {
		Withdrawn int64  `json:"withdrawn"`
		Recipient string `json:"recipient"`
	} `json:"data"`
}
