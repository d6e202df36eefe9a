package entities

import "strings"

// MintOffer is the administrator-maintained primary-sale configuration for
// one asset id. Zero values are storable; purchasability is judged at mint
// time, never at configuration time.
type MintOffer struct {
	AssetID          uint64
	MintPrice        int64
	RoyaltyRecipient string
}

// Purchasable reports whether the offer can back a primary sale: a positive
// price and a designated royalty recipient.
func (o MintOffer) Purchasable() bool {
	return o.MintPrice > 0 && strings.TrimSpace(o.RoyaltyRecipient) != ""
}
