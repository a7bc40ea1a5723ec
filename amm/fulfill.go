package amm

import (
	"math/big"
	"math/bits"

	"go.uber.org/zap"

	"github.com/meme-bots/nft-amm/allowlist"
	"github.com/meme-bots/nft-amm/escrow"
	"github.com/meme-bots/nft-amm/fees"
	"github.com/meme-bots/nft-amm/types"
)

// Engine executes trades against pools. Each fulfillment is one atomic unit:
// every fallible computation and balance check runs before the first lamport
// moves, and the pool's spot price only advances after all transfers have
// succeeded. The host runtime serializes trades per pool; different pools
// are independent.
type Engine struct {
	ledger types.Ledger
	logger *zap.Logger
}

func NewEngine(ledger types.Ledger, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{ledger: ledger, logger: logger}
}

type (
	// FulfillBuyParams describes a trade that fulfills the pool's buy side:
	// the seller (taker) sells AssetAmount units into the pool, paid out of
	// the pool's buy-side escrow.
	FulfillBuyParams struct {
		Pool             *types.Pool
		PoolAccount      *types.Account
		Owner            *types.Account
		BuysideEscrow    *types.Account
		Seller           *types.Account
		Referral         *types.Account
		AssetMint        *types.Account
		AssetMetadata    *types.Account
		MasterEdition    *types.Account
		CreatorAccounts  []*types.Account
		SellState        *types.SellState
		SellStateAccount *types.Account
		AssetAmount      uint64
		MakerFeeBp       int16
		TakerFeeBp       int16
		AllowlistAux     *string
		RoyaltyPolicy    *fees.PriceLinearRoyalty
	}

	// FulfillSellParams describes a trade that fulfills the pool's sell
	// side: the buyer (taker) buys AssetAmount units out of the pool's
	// inventory.
	FulfillSellParams struct {
		Pool             *types.Pool
		PoolAccount      *types.Account
		Owner            *types.Account
		BuysideEscrow    *types.Account
		Buyer            *types.Account
		Referral         *types.Account
		AssetMint        *types.Account
		AssetMetadata    *types.Account
		MasterEdition    *types.Account
		CreatorAccounts  []*types.Account
		SellState        *types.SellState
		SellStateAccount *types.Account
		AssetAmount      uint64
		MakerFeeBp       int16
		TakerFeeBp       int16
		AllowlistAux     *string
		RoyaltyPolicy    *fees.PriceLinearRoyalty
	}

	FulfillResult struct {
		TotalPrice    uint64
		NextSpotPrice uint64
		LpFee         uint64
		MakerFee      int64
		TakerFee      int64
		ReferralFee   uint64
		RoyaltyPaid   uint64
		TakerAmount   uint64 // received by the seller, or paid by the buyer
	}
)

// FulfillBuy executes a buy-side fulfillment end to end: eligibility, curve
// pricing, fee and royalty splits out of the buy-side escrow, inventory and
// spot-price mutation, then reclamation checks.
func (e *Engine) FulfillBuy(params *FulfillBuyParams) (*FulfillResult, error) {
	pool := params.Pool

	meta, err := allowlist.MatchMetadata(
		pool.Allowlists[:],
		params.AssetMint,
		params.AssetMetadata,
		params.MasterEdition,
		params.AllowlistAux,
	)
	if err != nil {
		return nil, err
	}

	quote, err := QuoteBuyFulfill(pool, params.BuysideEscrow, params.AssetAmount, params.MakerFeeBp, params.TakerFeeBp)
	if err != nil {
		return nil, err
	}

	royaltyBp := fees.MetadataRoyaltyBp(quote.TotalPrice, meta.Data.SellerFeeBasisPoints, params.RoyaltyPolicy)

	// the escrow pays out total+makerFee in aggregate; make sure it can
	// before anything moves
	outflow := new(big.Int).SetUint64(quote.TotalPrice)
	outflow.Add(outflow, big.NewInt(quote.MakerFee))
	if outflow.Sign() < 0 || !outflow.IsUint64() {
		return nil, types.ErrNumericOverflow
	}
	if params.BuysideEscrow.Lamports < outflow.Uint64() {
		return nil, types.ErrNotEnoughBalance
	}

	var creators []types.Creator
	if meta.Data.Creators != nil {
		creators = *meta.Data.Creators
	}
	royaltyPaid, err := fees.PayCreatorFees(
		e.ledger,
		royaltyBp,
		pool.BuysideCreatorRoyaltyBp,
		quote.TotalPrice,
		meta.Data.SellerFeeBasisPoints,
		creators,
		params.CreatorAccounts,
		params.BuysideEscrow,
	)
	if err != nil {
		return nil, err
	}

	if quote.ReferralFee > 0 {
		if err := e.ledger.Transfer(params.BuysideEscrow, params.Referral, quote.ReferralFee); err != nil {
			return nil, err
		}
	}
	if quote.LpFee > 0 {
		if err := e.ledger.Transfer(params.BuysideEscrow, params.Owner, quote.LpFee); err != nil {
			return nil, err
		}
	}

	sellerReceives := new(big.Int).SetUint64(quote.TotalPrice)
	sellerReceives.Sub(sellerReceives, new(big.Int).SetUint64(quote.LpFee))
	sellerReceives.Sub(sellerReceives, big.NewInt(quote.TakerFee))
	sellerReceives.Sub(sellerReceives, new(big.Int).SetUint64(royaltyPaid))
	if sellerReceives.Sign() < 0 || !sellerReceives.IsUint64() {
		return nil, types.ErrNumericOverflow
	}
	if err := e.ledger.Transfer(params.BuysideEscrow, params.Seller, sellerReceives.Uint64()); err != nil {
		return nil, err
	}

	// all transfers done, now the state advances
	pool.SpotPrice = quote.NextPrice
	if pool.ReinvestFulfillBuy {
		pool.SellsideAssetAmount += params.AssetAmount
		params.SellState.Pool = params.PoolAccount.Key
		params.SellState.PoolOwner = pool.Owner
		params.SellState.AssetMint = params.AssetMint.Key
		params.SellState.AssetAmount += params.AssetAmount
	}
	if !pool.UsingSharedEscrow() {
		pool.BuysidePaymentAmount = params.BuysideEscrow.Lamports
	}

	if err := escrow.TryCloseEscrow(e.ledger, params.BuysideEscrow, pool, params.PoolAccount); err != nil {
		return nil, err
	}
	if !pool.UsingSharedEscrow() {
		pool.BuysidePaymentAmount = params.BuysideEscrow.Lamports
	}
	if err := escrow.TryClosePool(pool, params.PoolAccount, params.Owner); err != nil {
		return nil, err
	}

	LogPool(e.logger, "post_fulfill_buy", pool)

	return &FulfillResult{
		TotalPrice:    quote.TotalPrice,
		NextSpotPrice: quote.NextPrice,
		LpFee:         quote.LpFee,
		MakerFee:      quote.MakerFee,
		TakerFee:      quote.TakerFee,
		ReferralFee:   quote.ReferralFee,
		RoyaltyPaid:   royaltyPaid,
		TakerAmount:   sellerReceives.Uint64(),
	}, nil
}

// FulfillSell executes a sell-side fulfillment: the buyer pays the curve
// price plus taker fee plus royalty, the proceeds land in the buy-side
// escrow or with the owner depending on the pool's reinvest flag, and the
// pool's inventory shrinks.
func (e *Engine) FulfillSell(params *FulfillSellParams) (*FulfillResult, error) {
	pool := params.Pool

	meta, err := allowlist.MatchMetadata(
		pool.Allowlists[:],
		params.AssetMint,
		params.AssetMetadata,
		params.MasterEdition,
		params.AllowlistAux,
	)
	if err != nil {
		return nil, err
	}

	if pool.SellsideAssetAmount < params.AssetAmount || params.SellState.AssetAmount < params.AssetAmount {
		return nil, types.ErrInvalidPool
	}

	quote, err := QuoteSellFulfill(pool, params.Owner, params.BuysideEscrow, params.AssetAmount, params.MakerFeeBp, params.TakerFeeBp)
	if err != nil {
		return nil, err
	}

	royaltyBp := fees.MetadataRoyaltyBp(quote.TotalPrice, meta.Data.SellerFeeBasisPoints, params.RoyaltyPolicy)

	// proceeds to the owner or escrow: total - lpFee - makerFee
	proceeds := new(big.Int).SetUint64(quote.TotalPrice)
	proceeds.Sub(proceeds, new(big.Int).SetUint64(quote.LpFee))
	proceeds.Sub(proceeds, big.NewInt(quote.MakerFee))
	if proceeds.Sign() < 0 || !proceeds.IsUint64() {
		return nil, types.ErrNumericOverflow
	}

	// the buyer pays total+takerFee plus the royalty in aggregate; check the
	// sum before anything moves so a failure cannot leave a half-settled trade
	royalty, err := fees.Royalty(quote.TotalPrice, royaltyBp, pool.BuysideCreatorRoyaltyBp)
	if err != nil {
		return nil, err
	}
	due := new(big.Int).SetUint64(quote.TotalPrice)
	due.Add(due, big.NewInt(quote.TakerFee))
	if due.Sign() < 0 || !due.IsUint64() {
		return nil, types.ErrNumericOverflow
	}
	outlay, carry := bits.Add64(due.Uint64(), royalty, 0)
	if carry != 0 {
		return nil, types.ErrNumericOverflow
	}
	if params.Buyer.Lamports < outlay {
		return nil, types.ErrNotEnoughBalance
	}

	var creators []types.Creator
	if meta.Data.Creators != nil {
		creators = *meta.Data.Creators
	}
	royaltyPaid, err := fees.PayCreatorFees(
		e.ledger,
		royaltyBp,
		pool.BuysideCreatorRoyaltyBp,
		quote.TotalPrice,
		meta.Data.SellerFeeBasisPoints,
		creators,
		params.CreatorAccounts,
		params.Buyer,
	)
	if err != nil {
		return nil, err
	}

	if quote.ReferralFee > 0 {
		if err := e.ledger.Transfer(params.Buyer, params.Referral, quote.ReferralFee); err != nil {
			return nil, err
		}
	}
	if quote.LpFee > 0 {
		if err := e.ledger.Transfer(params.Buyer, params.Owner, quote.LpFee); err != nil {
			return nil, err
		}
	}
	if err := e.ledger.Transfer(params.Buyer, quote.TransferSolTo, proceeds.Uint64()); err != nil {
		return nil, err
	}

	pool.SpotPrice = quote.NextPrice
	pool.SellsideAssetAmount -= params.AssetAmount
	params.SellState.AssetAmount -= params.AssetAmount
	if !pool.UsingSharedEscrow() {
		pool.BuysidePaymentAmount = params.BuysideEscrow.Lamports
	}

	if err := escrow.TryCloseSellState(params.SellState, params.SellStateAccount, params.Owner); err != nil {
		return nil, err
	}
	if err := escrow.TryClosePool(pool, params.PoolAccount, params.Owner); err != nil {
		return nil, err
	}

	LogPool(e.logger, "post_fulfill_sell", pool)

	buyerPaid := new(big.Int).Add(due, new(big.Int).SetUint64(royaltyPaid))
	return &FulfillResult{
		TotalPrice:    quote.TotalPrice,
		NextSpotPrice: quote.NextPrice,
		LpFee:         quote.LpFee,
		MakerFee:      quote.MakerFee,
		TakerFee:      quote.TakerFee,
		ReferralFee:   quote.ReferralFee,
		RoyaltyPaid:   royaltyPaid,
		TakerAmount:   buyerPaid.Uint64(),
	}, nil
}
