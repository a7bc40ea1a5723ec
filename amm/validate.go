package amm

import (
	"github.com/meme-bots/nft-amm/allowlist"
	"github.com/meme-bots/nft-amm/curve"
	"github.com/meme-bots/nft-amm/types"
)

// ValidatePool checks the configuration-time invariants of a pool: curve
// shape, fee bounds, and allowlist validity. Run on creation and on every
// update.
func ValidatePool(pool *types.Pool) error {
	if err := curve.Check(pool.CurveType, pool.CurveDelta); err != nil {
		return err
	}

	if pool.LpFeeBp > types.MaxLpFeeBp {
		return types.ErrInvalidBP
	}

	if pool.BuysideCreatorRoyaltyBp > types.BasisPointMax {
		return types.ErrInvalidBP
	}

	return allowlist.CheckAllowlists(pool.Allowlists[:])
}
