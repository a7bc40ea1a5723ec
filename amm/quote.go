package amm

import (
	"github.com/samber/lo"

	"github.com/meme-bots/nft-amm/curve"
	"github.com/meme-bots/nft-amm/fees"
	"github.com/meme-bots/nft-amm/types"
)

// QuoteSellFulfill prices a trade that fulfills the pool's sell side (the
// taker buys assetAmount units out of the pool's inventory) and resolves
// where the sale proceeds go.
func QuoteSellFulfill(
	pool *types.Pool,
	owner *types.Account,
	buysideEscrow *types.Account,
	assetAmount uint64,
	makerFeeBp, takerFeeBp int16,
) (*types.PoolPriceInfo, error) {
	totalPrice, nextPrice, err := curve.PriceTrade(pool, assetAmount, false)
	if err != nil {
		return nil, err
	}

	lpFee, err := fees.LpFee(pool, buysideEscrow.Lamports, totalPrice)
	if err != nil {
		return nil, err
	}

	if err := fees.ValidateFeeBp(makerFeeBp, takerFeeBp); err != nil {
		return nil, err
	}
	makerFee, err := fees.FeeFromBp(totalPrice, makerFeeBp)
	if err != nil {
		return nil, err
	}
	takerFee, err := fees.FeeFromBp(totalPrice, takerFeeBp)
	if err != nil {
		return nil, err
	}
	referralFee, err := fees.ReferralFee(makerFee, takerFee)
	if err != nil {
		return nil, err
	}

	return &types.PoolPriceInfo{
		TotalPrice:    totalPrice,
		NextPrice:     nextPrice,
		LpFee:         lpFee,
		MakerFee:      makerFee,
		TakerFee:      takerFee,
		ReferralFee:   referralFee,
		TransferSolTo: lo.If(pool.ReinvestFulfillSell, buysideEscrow).Else(owner),
	}, nil
}

// QuoteBuyFulfill prices a trade that fulfills the pool's buy side (the
// taker sells assetAmount units into the pool, paid out of the buy-side
// escrow).
func QuoteBuyFulfill(
	pool *types.Pool,
	buysideEscrow *types.Account,
	assetAmount uint64,
	makerFeeBp, takerFeeBp int16,
) (*types.PoolPriceInfo, error) {
	totalPrice, nextPrice, err := curve.PriceTrade(pool, assetAmount, true)
	if err != nil {
		return nil, err
	}

	lpFee, err := fees.LpFee(pool, buysideEscrow.Lamports, totalPrice)
	if err != nil {
		return nil, err
	}

	if err := fees.ValidateFeeBp(makerFeeBp, takerFeeBp); err != nil {
		return nil, err
	}
	makerFee, err := fees.FeeFromBp(totalPrice, makerFeeBp)
	if err != nil {
		return nil, err
	}
	takerFee, err := fees.FeeFromBp(totalPrice, takerFeeBp)
	if err != nil {
		return nil, err
	}
	referralFee, err := fees.ReferralFee(makerFee, takerFee)
	if err != nil {
		return nil, err
	}

	return &types.PoolPriceInfo{
		TotalPrice:    totalPrice,
		NextPrice:     nextPrice,
		LpFee:         lpFee,
		MakerFee:      makerFee,
		TakerFee:      takerFee,
		ReferralFee:   referralFee,
		TransferSolTo: buysideEscrow,
	}, nil
}
