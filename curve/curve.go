// Package curve prices trades against a pool's bonding curve.
package curve

import (
	"math/big"
	"math/bits"

	"github.com/meme-bots/nft-amm/types"
)

// Check validates a pool's curve configuration. Only linear and exponential
// curves are allowed, and an exponential delta is a basis-point step.
func Check(curveType uint8, curveDelta uint64) error {
	if curveType > types.CurveKindExp {
		return types.ErrInvalidCurveType
	}

	if curveType == types.CurveKindExp && curveDelta > types.BasisPointMax {
		return types.ErrInvalidCurveDelta
	}

	return nil
}

// PriceTrade computes the total price for trading n assets against pool and
// the spot price the pool lands on afterwards.
//
// Buy fulfillment (the pool sells from inventory) walks the curve downward
// starting at the current spot price. Sell fulfillment walks it upward, with
// the first unit already one step above spot so that a buy/sell roundtrip at
// the same nominal spot price can never drain the pool.
//
// A zero total price is rejected, and the total must not exceed
// types.MaxTotalPrice.
func PriceTrade(pool *types.Pool, n uint64, fulfillBuy bool) (uint64, uint64, error) {
	p := pool.SpotPrice
	delta := pool.CurveDelta

	var totalPrice, nextPrice uint64
	var err error
	if fulfillBuy {
		switch pool.CurveType {
		case types.CurveKindLinear:
			totalPrice, nextPrice, err = linearBuy(p, delta, n)
		case types.CurveKindExp:
			totalPrice, nextPrice, err = expBuy(p, delta, n)
		default:
			return 0, 0, types.ErrInvalidCurveType
		}
	} else {
		switch pool.CurveType {
		case types.CurveKindLinear:
			totalPrice, nextPrice, err = linearSell(p, delta, n)
		case types.CurveKindExp:
			totalPrice, nextPrice, err = expSell(p, delta, n)
		default:
			return 0, 0, types.ErrInvalidCurveType
		}
	}
	if err != nil {
		return 0, 0, err
	}

	// a free trade is a pricing failure, not a bargain
	if totalPrice == 0 {
		return 0, 0, types.ErrNumericOverflow
	}
	if totalPrice > types.MaxTotalPrice {
		return 0, 0, types.ErrNumericOverflow
	}

	return totalPrice, nextPrice, nil
}

// linearBuy prices the arithmetic series p, p-delta, ..., p-(n-1)*delta
// using the closed form n*(2p-(n-1)*delta)/2.
func linearBuy(p, delta, n uint64) (uint64, uint64, error) {
	twoP, err := checkedMul(p, 2)
	if err != nil {
		return 0, 0, err
	}
	nMinusOne, err := checkedSub(n, 1)
	if err != nil {
		return 0, 0, err
	}
	step, err := checkedMul(nMinusOne, delta)
	if err != nil {
		return 0, 0, err
	}
	span, err := checkedSub(twoP, step)
	if err != nil {
		return 0, 0, err
	}
	series, err := checkedMul(n, span)
	if err != nil {
		return 0, 0, err
	}
	totalPrice := series / 2

	drop, err := checkedMul(n, delta)
	if err != nil {
		return 0, 0, err
	}
	nextPrice, err := checkedSub(p, drop)
	if err != nil {
		return 0, 0, err
	}
	return totalPrice, nextPrice, nil
}

// linearSell mirrors linearBuy one step above spot: p+delta, ..., p+n*delta,
// closed form n*(2p+(n+1)*delta)/2.
func linearSell(p, delta, n uint64) (uint64, uint64, error) {
	twoP, err := checkedMul(p, 2)
	if err != nil {
		return 0, 0, err
	}
	nPlusOne, err := checkedAdd(n, 1)
	if err != nil {
		return 0, 0, err
	}
	step, err := checkedMul(nPlusOne, delta)
	if err != nil {
		return 0, 0, err
	}
	span, err := checkedAdd(twoP, step)
	if err != nil {
		return 0, 0, err
	}
	series, err := checkedMul(n, span)
	if err != nil {
		return 0, 0, err
	}
	totalPrice := series / 2

	rise, err := checkedMul(n, delta)
	if err != nil {
		return 0, 0, err
	}
	nextPrice, err := checkedAdd(p, rise)
	if err != nil {
		return 0, 0, err
	}
	return totalPrice, nextPrice, nil
}

// expBuy iterates unit by unit, dividing by (10000+delta)/10000 each step.
// No closed form: the per-step integer truncation is part of the contract.
func expBuy(p, delta, n uint64) (uint64, uint64, error) {
	bpBase := big.NewInt(types.BasisPointMax)
	divisor := new(big.Int).Add(bpBase, new(big.Int).SetUint64(delta))

	var totalPrice uint64
	curr := new(big.Int).SetUint64(p)
	for i := uint64(0); i < n; i++ {
		unit, err := bigToU64(curr)
		if err != nil {
			return 0, 0, err
		}
		totalPrice, err = checkedAdd(totalPrice, unit)
		if err != nil {
			return 0, 0, err
		}
		curr.Div(new(big.Int).Mul(curr, bpBase), divisor)
	}

	nextPrice, err := bigToU64(curr)
	if err != nil {
		return 0, 0, err
	}
	return totalPrice, nextPrice, nil
}

// expSell multiplies by (10000+delta)/10000 before each unit, so the first
// unit is priced one step above spot.
func expSell(p, delta, n uint64) (uint64, uint64, error) {
	bpBase := big.NewInt(types.BasisPointMax)
	factor := new(big.Int).Add(bpBase, new(big.Int).SetUint64(delta))

	var totalPrice uint64
	curr := new(big.Int).SetUint64(p)
	for i := uint64(0); i < n; i++ {
		curr.Div(new(big.Int).Mul(curr, factor), bpBase)
		unit, err := bigToU64(curr)
		if err != nil {
			return 0, 0, err
		}
		totalPrice, err = checkedAdd(totalPrice, unit)
		if err != nil {
			return 0, 0, err
		}
	}

	nextPrice, err := bigToU64(curr)
	if err != nil {
		return 0, 0, err
	}
	return totalPrice, nextPrice, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, types.ErrNumericOverflow
	}
	return lo, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, types.ErrNumericOverflow
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, types.ErrNumericOverflow
	}
	return diff, nil
}

func bigToU64(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, types.ErrNumericOverflow
	}
	return v.Uint64(), nil
}
