package types

const (
	CurveKindLinear uint8 = 0
	CurveKindExp    uint8 = 1
)

const (
	AllowlistKindEmpty    uint8 = 0
	AllowlistKindAny      uint8 = 1
	AllowlistKindFVCA     uint8 = 2
	AllowlistKindMint     uint8 = 3
	AllowlistKindMCC      uint8 = 4
	AllowlistKindMetadata uint8 = 5
	AllowlistKindGroup    uint8 = 6

	AllowlistMaxLen = 6
)

const (
	BasisPointMax = 10000

	// MaxLpFeeBp caps the liquidity-provider fee a pool may configure.
	MaxLpFeeBp = 2000

	// MaxReferralFeeBp bounds taker fee, maker fee magnitude, and their sum.
	MaxReferralFeeBp = 500

	// MaxMetadataCreatorRoyaltyBp is the hard ceiling on an asset's declared
	// creator royalty.
	MaxMetadataCreatorRoyaltyBp = 3000

	// MinEscrowBalanceBp: escrow balances below this fraction of spot price
	// are dust and get swept back into the pool.
	MinEscrowBalanceBp = 100

	LamportsPerSol = 1_000_000_000

	// MaxTotalPrice is the ceiling on any single trade's total price.
	MaxTotalPrice = 8_000_000 * LamportsPerSol
)

// Rent parameters for the minimum-balance floor of a zero-data account.
const (
	RentBase  = 128
	RentPrice = 6960
)
