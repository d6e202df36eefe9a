package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MintAssetRequest struct {
	AttachedValue int64 `json:"attached_value"`
}

type MintAssetResponse struct {
	Status string `json:"status"`
	Data   struct {
		TradeID          string `json:"trade_id"`
		AssetID          uint64 `json:"asset_id"`
		Owner            string `json:"owner"`
		MintPrice        int64  `json:"mint_price"`
		RoyaltyPaid      int64  `json:"royalty_paid"`
		PlatformRetained int64  `json:"platform_retained"`
	} `json:"data"`
}

type ListAssetRequest struct {
	Price int64 `json:"price"`
}

type ListingDTO struct {
	AssetID  uint64 `json:"asset_id"`
	Price    int64  `json:"price"`
	Seller   string `json:"seller"`
	ListedAt string `json:"listed_at"`
	Stale    bool   `json:"stale,omitempty"`
}

type ListAssetResponse struct {
	Status string     `json:"status"`
	Data   ListingDTO `json:"data"`
}

type DelistAssetResponse struct {
	Status string `json:"status"`
}

type BuyAssetRequest struct {
	AttachedValue int64 `json:"attached_value"`
}

type BuyAssetResponse struct {
	Status string `json:"status"`
	Data   struct {
		TradeID        string `json:"trade_id"`
		AssetID        uint64 `json:"asset_id"`
		Seller         string `json:"seller"`
		Buyer          string `json:"buyer"`
		Price          int64  `json:"price"`
		SellerProceeds int64  `json:"seller_proceeds"`
		RoyaltyPaid    int64  `json:"royalty_paid"`
		PlatformFee    int64  `json:"platform_fee"`
	} `json:"data"`
}

type AssetResponse struct {
	Status string `json:"status"`
	Data   struct {
		AssetID          uint64      `json:"asset_id"`
		Minted           bool        `json:"minted"`
		Owner            string      `json:"owner,omitempty"`
		URI              string      `json:"uri,omitempty"`
		MintPrice        int64       `json:"mint_price,omitempty"`
		RoyaltyRecipient string      `json:"royalty_recipient,omitempty"`
		Listing          *ListingDTO `json:"listing,omitempty"`
	} `json:"data"`
}

type ListingsResponse struct {
	Status string       `json:"status"`
	Data   []ListingDTO `json:"data"`
}

type TradeDTO struct {
	TradeID        string `json:"trade_id"`
	AssetID        uint64 `json:"asset_id"`
	Kind           string `json:"kind"`
	Price          int64  `json:"price"`
	SellerProceeds int64  `json:"seller_proceeds,omitempty"`
	RoyaltyPaid    int64  `json:"royalty_paid"`
	PlatformFee    int64  `json:"platform_fee"`
	Seller         string `json:"seller,omitempty"`
	Buyer          string `json:"buyer"`
	OccurredAt     string `json:"occurred_at"`
}

type TradesResponse struct {
	Status string     `json:"status"`
	Data   []TradeDTO `json:"data"`
}

type SetMintOffersRequest struct {
	AssetIDs []uint64 `json:"asset_ids"`
	Prices   []int64  `json:"prices"`
}

type SetRoyaltyRecipientsRequest struct {
	AssetIDs   []uint64 `json:"asset_ids"`
	Recipients []string `json:"recipients"`
}

type SetMetadataLocatorRequest struct {
	URI string `json:"uri"`
}

type TransferAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

type AdminActionResponse struct {
	Status string `json:"status"`
}
