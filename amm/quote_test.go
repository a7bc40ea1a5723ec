package amm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/meme-bots/nft-amm/types"
)

func quotePool() *types.Pool {
	return &types.Pool{
		SpotPrice:           1 * sol,
		CurveType:           types.CurveKindLinear,
		CurveDelta:          sol / 10,
		LpFeeBp:             200,
		SellsideAssetAmount: 3,
		Owner:               solana.NewWallet().PublicKey(),
	}
}

func TestQuoteSellFulfillDestination(t *testing.T) {
	pool := quotePool()
	owner := &types.Account{Key: pool.Owner}
	buysideEscrow := &types.Account{Key: solana.NewWallet().PublicKey(), Lamports: 10 * sol}

	// proceeds go to the owner unless the pool reinvests
	info, err := QuoteSellFulfill(pool, owner, buysideEscrow, 1, 0, 0)
	require.NoError(t, err)
	require.Same(t, owner, info.TransferSolTo)

	pool.ReinvestFulfillSell = true
	info, err = QuoteSellFulfill(pool, owner, buysideEscrow, 1, 0, 0)
	require.NoError(t, err)
	require.Same(t, buysideEscrow, info.TransferSolTo)
}

func TestQuoteSellFulfillPricing(t *testing.T) {
	pool := quotePool()
	owner := &types.Account{Key: pool.Owner}
	buysideEscrow := &types.Account{Key: solana.NewWallet().PublicKey(), Lamports: 10 * sol}

	info, err := QuoteSellFulfill(pool, owner, buysideEscrow, 2, -100, 200)
	require.NoError(t, err)

	// 1.1 + 1.2 SOL
	require.Equal(t, 23*sol/10, info.TotalPrice)
	require.Equal(t, 12*sol/10, info.NextPrice)
	require.Equal(t, info.TotalPrice*200/10000, info.LpFee)
	require.Equal(t, -int64(info.TotalPrice/100), info.MakerFee)
	require.Equal(t, int64(info.TotalPrice/50), info.TakerFee)
	require.Equal(t, info.TotalPrice/100, info.ReferralFee)
}

func TestQuoteBuyFulfillPricing(t *testing.T) {
	pool := quotePool()
	buysideEscrow := &types.Account{Key: solana.NewWallet().PublicKey(), Lamports: 10 * sol}

	info, err := QuoteBuyFulfill(pool, buysideEscrow, 2, 100, 100)
	require.NoError(t, err)

	// 1.0 + 0.9 SOL, payout always comes from the escrow
	require.Equal(t, 19*sol/10, info.TotalPrice)
	require.Equal(t, 8*sol/10, info.NextPrice)
	require.Same(t, buysideEscrow, info.TransferSolTo)
}

func TestQuoteRejectsBadFeeBp(t *testing.T) {
	pool := quotePool()
	buysideEscrow := &types.Account{Lamports: 10 * sol}

	_, err := QuoteBuyFulfill(pool, buysideEscrow, 1, 400, 200)
	require.ErrorIs(t, err, types.ErrInvalidMakerOrTakerFeeBp)

	_, err = QuoteSellFulfill(pool, &types.Account{}, buysideEscrow, 1, 0, -1)
	require.ErrorIs(t, err, types.ErrInvalidMakerOrTakerFeeBp)
}

func TestQuoteLpFeeRequiresLiquidity(t *testing.T) {
	pool := quotePool()
	// escrow cannot cover one unit at spot: no LP fee on the quote
	buysideEscrow := &types.Account{Lamports: sol / 2}

	info, err := QuoteBuyFulfill(pool, buysideEscrow, 1, 0, 0)
	require.NoError(t, err)
	require.Zero(t, info.LpFee)
}
