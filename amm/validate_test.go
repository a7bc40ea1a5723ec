package amm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meme-bots/nft-amm/types"
)

func TestValidatePool(t *testing.T) {
	pool := &types.Pool{
		CurveType:               types.CurveKindExp,
		CurveDelta:              500,
		LpFeeBp:                 types.MaxLpFeeBp,
		BuysideCreatorRoyaltyBp: types.BasisPointMax,
		Allowlists:              [types.AllowlistMaxLen]types.Allowlist{{Kind: types.AllowlistKindAny}},
	}
	require.NoError(t, ValidatePool(pool))

	bad := *pool
	bad.CurveDelta = types.BasisPointMax + 1
	require.ErrorIs(t, ValidatePool(&bad), types.ErrInvalidCurveDelta)

	bad = *pool
	bad.LpFeeBp = types.MaxLpFeeBp + 1
	require.ErrorIs(t, ValidatePool(&bad), types.ErrInvalidBP)

	bad = *pool
	bad.BuysideCreatorRoyaltyBp = types.BasisPointMax + 1
	require.ErrorIs(t, ValidatePool(&bad), types.ErrInvalidBP)

	bad = *pool
	bad.Allowlists[3].Kind = 9
	require.ErrorIs(t, ValidatePool(&bad), types.ErrInvalidAllowLists)
}
