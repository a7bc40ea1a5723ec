package fees

import "math/big"

// PriceLinearRoyalty is a dynamic-royalty policy: the effective royalty
// moves linearly with the trade's total price between two anchor points,
// clamped at both ends.
type PriceLinearRoyalty struct {
	StartPrice uint64
	EndPrice   uint64
	StartBp    uint16
	EndBp      uint16
}

// RoyaltyBp evaluates the policy at totalPrice. A degenerate price range
// falls back to the asset's static royalty.
func (r *PriceLinearRoyalty) RoyaltyBp(totalPrice uint64, fallbackBp uint16) uint16 {
	if r.EndPrice <= r.StartPrice {
		return fallbackBp
	}
	if totalPrice <= r.StartPrice {
		return r.StartBp
	}
	if totalPrice >= r.EndPrice {
		return r.EndBp
	}

	span := new(big.Int).SetUint64(r.EndPrice - r.StartPrice)
	offset := new(big.Int).SetUint64(totalPrice - r.StartPrice)
	diff := big.NewInt(int64(r.EndBp) - int64(r.StartBp))

	bp := new(big.Int).Mul(diff, offset)
	bp.Quo(bp, span)
	bp.Add(bp, big.NewInt(int64(r.StartBp)))
	return uint16(bp.Int64())
}

// MetadataRoyaltyBp resolves the effective royalty for a trade: the attached
// dynamic policy wins when present, otherwise the asset's declared royalty.
func MetadataRoyaltyBp(totalPrice uint64, sellerFeeBp uint16, policy *PriceLinearRoyalty) uint16 {
	if policy == nil {
		return sellerFeeBp
	}
	return policy.RoyaltyBp(totalPrice, sellerFeeBp)
}
