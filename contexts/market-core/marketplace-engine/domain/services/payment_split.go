package services

// Payment split constants. The three resale-relevant percentages are fixed
// and the platform always receives whatever the explicit shares leave
// behind, so every split sums exactly to the input total.
const (
	PrimarySaleArtistPct = 75
	ResaleSellerPct      = 90
	ResaleArtistPct      = 7
)

type SaleKind string

const (
	KindPrimarySale SaleKind = "primary_sale"
	KindResale      SaleKind = "resale"
)

type Role string

const (
	RoleArtist   Role = "artist"
	RoleSeller   Role = "seller"
	RolePlatform Role = "platform"
)

type Share struct {
	Role   Role
	Amount int64
}

// Split divides a sale total across recipient roles using floor division.
// The platform share is computed as the remainder of the total, never as an
// independently rounded percentage, so the shares always sum to total. Split
// is defined for every non-negative total; negative totals yield zero shares.
func Split(kind SaleKind, total int64) []Share {
	if total < 0 {
		total = 0
	}

	switch kind {
	case KindPrimarySale:
		artist := total * PrimarySaleArtistPct / 100
		return []Share{
			{Role: RoleArtist, Amount: artist},
			{Role: RolePlatform, Amount: total - artist},
		}
	case KindResale:
		seller := total * ResaleSellerPct / 100
		artist := total * ResaleArtistPct / 100
		return []Share{
			{Role: RoleSeller, Amount: seller},
			{Role: RoleArtist, Amount: artist},
			{Role: RolePlatform, Amount: total - seller - artist},
		}
	default:
		return []Share{{Role: RolePlatform, Amount: total}}
	}
}

// Amount returns the share assigned to role, zero when the role is absent.
func Amount(shares []Share, role Role) int64 {
	for _, share := range shares {
		if share.Role == role {
			return share.Amount
		}
	}
	return 0
}
