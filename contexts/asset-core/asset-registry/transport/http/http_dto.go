package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OwnerAssetsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Owner    string   `json:"owner"`
		Count    int      `json:"count"`
		AssetIDs []uint64 `json:"asset_ids"`
	} `json:"data"`
}
