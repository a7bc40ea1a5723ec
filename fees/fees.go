// Package fees splits a trade's total price into the liquidity-provider fee,
// maker/taker referral fees, and creator royalties.
package fees

import (
	"math/big"
	"math/bits"

	"github.com/meme-bots/nft-amm/types"
)

var bpBase = big.NewInt(types.BasisPointMax)

// LpFeeBp returns the effective LP fee in basis points. The fee only applies
// while the pool can actually keep trading: it must hold sellable inventory
// and the buy-side escrow must cover at least one unit at spot price.
func LpFeeBp(pool *types.Pool, buysideEscrowBalance uint64) uint16 {
	if pool.SellsideAssetAmount < 1 {
		return 0
	}

	if buysideEscrowBalance < pool.SpotPrice {
		return 0
	}

	return pool.LpFeeBp
}

// LpFee returns the LP fee in lamports for a trade of totalPrice.
func LpFee(pool *types.Pool, buysideEscrowBalance, totalPrice uint64) (uint64, error) {
	lpFeeBp := LpFeeBp(pool, buysideEscrowBalance)

	fee := new(big.Int).SetUint64(totalPrice)
	fee.Mul(fee, new(big.Int).SetUint64(uint64(lpFeeBp)))
	fee.Div(fee, bpBase)
	if !fee.IsUint64() {
		return 0, types.ErrNumericOverflow
	}
	return fee.Uint64(), nil
}

// FeeFromBp computes a proportional fee. Negative basis points yield a
// negative amount (a rebate).
func FeeFromBp(totalPrice uint64, feeBp int16) (int64, error) {
	fee := new(big.Int).SetUint64(totalPrice)
	fee.Mul(fee, big.NewInt(int64(feeBp)))
	fee.Quo(fee, bpBase)
	if !fee.IsInt64() {
		return 0, types.ErrNumericOverflow
	}
	return fee.Int64(), nil
}

// ValidateFeeBp bounds the referral fee configuration. The taker fee can
// never be negative, the maker fee may be (a rebate), and the sum of the two
// must stay within [0, MaxReferralFeeBp] so that the net referral cost is
// never negative and never exceeds the cap.
func ValidateFeeBp(makerFeeBp, takerFeeBp int16) error {
	const bound = types.MaxReferralFeeBp

	if takerFeeBp < 0 || takerFeeBp > bound {
		return types.ErrInvalidMakerOrTakerFeeBp
	}

	if makerFeeBp < -bound || makerFeeBp > bound {
		return types.ErrInvalidMakerOrTakerFeeBp
	}

	sum := int32(makerFeeBp) + int32(takerFeeBp)
	if sum < 0 || sum > bound {
		return types.ErrInvalidMakerOrTakerFeeBp
	}

	return nil
}

// ReferralFee is the combined maker+taker fee. The sum must be representable
// as an unsigned amount.
func ReferralFee(makerFee, takerFee int64) (uint64, error) {
	sum := new(big.Int).Add(big.NewInt(makerFee), big.NewInt(takerFee))
	if sum.Sign() < 0 || !sum.IsUint64() {
		return 0, types.ErrNumericOverflow
	}
	return sum.Uint64(), nil
}

// SellerReceives solves for the amount a seller nets out of totalPrice once
// the LP fee and the effective creator royalty are carved out:
//
//	total = receives * (1 + lpFeeBp/10000 + royaltyBp/10000 * buysideCreatorRoyaltyBp/10000)
func SellerReceives(totalPrice uint64, lpFeeBp, royaltyBp, buysideCreatorRoyaltyBp uint16) (uint64, error) {
	bpSquare := new(big.Int).Mul(bpBase, bpBase)

	royaltyPart := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(royaltyBp)),
		new(big.Int).SetUint64(uint64(buysideCreatorRoyaltyBp)),
	)
	allFees := new(big.Int).Mul(new(big.Int).SetUint64(uint64(lpFeeBp)), bpBase)
	allFees.Add(allFees, royaltyPart)
	allFees.Add(allFees, bpSquare)

	receives := new(big.Int).SetUint64(totalPrice)
	receives.Mul(receives, bpSquare)
	receives.Div(receives, allFees)
	if !receives.IsUint64() {
		return 0, types.ErrNumericOverflow
	}
	return receives.Uint64(), nil
}

// Royalty is the creator royalty carved out of a trade: totalPrice scaled by
// the effective royalty bp and then by the pool's buyside share, truncating
// after each division to match on-chain integer math.
func Royalty(totalPrice uint64, royaltyBp, buysideCreatorRoyaltyBp uint16) (uint64, error) {
	r := new(big.Int).SetUint64(totalPrice)
	r.Mul(r, new(big.Int).SetUint64(uint64(royaltyBp)))
	r.Div(r, bpBase)
	r.Mul(r, new(big.Int).SetUint64(uint64(buysideCreatorRoyaltyBp)))
	r.Div(r, bpBase)
	if !r.IsUint64() {
		return 0, types.ErrNumericOverflow
	}
	return r.Uint64(), nil
}

// PayCreatorFees distributes the creator royalty for a trade pro-rata by
// declared share, paying through the ledger from payer. The last creator
// receives the exact remainder instead of its own pro-rata cut, so the
// distributed amounts always sum to the royalty despite integer truncation.
//
// Payments that would leave a creator below the minimum-balance floor are
// skipped silently and excluded from the returned total.
func PayCreatorFees(
	ledger types.Ledger,
	royaltyBp uint16,
	buysideCreatorRoyaltyBp uint16,
	totalPrice uint64,
	sellerFeeBp uint16,
	creators []types.Creator,
	creatorAccounts []*types.Account,
	payer *types.Account,
) (uint64, error) {
	royalty, err := Royalty(totalPrice, royaltyBp, buysideCreatorRoyaltyBp)
	if err != nil {
		return 0, err
	}

	if royalty == 0 {
		return 0, nil
	}

	if len(creators) == 0 {
		return 0, nil
	}

	if payer.Lamports < royalty {
		return 0, types.ErrNotEnoughBalance
	}

	if sellerFeeBp > types.MaxMetadataCreatorRoyaltyBp {
		return 0, types.ErrInvalidMetadataCreatorRoyalty
	}

	minRent := ledger.MinimumBalance(0)
	var totalPaid uint64

	for i, creator := range creators {
		var creatorFee uint64
		if i == len(creators)-1 {
			// exact remainder, not the pro-rata share
			if totalPaid > royalty {
				return 0, types.ErrNumericOverflow
			}
			creatorFee = royalty - totalPaid
		} else {
			fee := new(big.Int).SetUint64(royalty)
			fee.Mul(fee, new(big.Int).SetUint64(uint64(creator.Share)))
			fee.Div(fee, big.NewInt(100))
			if !fee.IsUint64() {
				return 0, types.ErrNumericOverflow
			}
			creatorFee = fee.Uint64()
		}

		if i >= len(creatorAccounts) {
			return 0, types.ErrInvalidRemainingAccounts
		}
		account := creatorAccounts[i]
		if !creator.Address.Equals(account.Key) {
			return 0, types.ErrInvalidCreatorAddress
		}

		newBalance, carry := bits.Add64(account.Lamports, creatorFee, 0)
		if carry != 0 {
			return 0, types.ErrNumericOverflow
		}
		if creatorFee > 0 && newBalance > minRent {
			if err := ledger.Transfer(payer, account, creatorFee); err != nil {
				return 0, err
			}
			totalPaid += creatorFee
		}
	}

	return totalPaid, nil
}
