package escrow

import (
	"math/big"
	"math/bits"

	"github.com/samber/lo"

	"github.com/meme-bots/nft-amm/types"
)

// TryClosePool reclaims the pool account into owner once the pool is fully
// drained: no sellside inventory, no buyside payment, and no outstanding
// shared-escrow references. Anything else is a no-op, which makes the call
// safe to repeat after every trade.
func TryClosePool(pool *types.Pool, poolAccount, owner *types.Account) error {
	if pool.SellsideAssetAmount != 0 {
		return nil
	}

	if pool.BuysidePaymentAmount != 0 {
		return nil
	}

	if pool.UsingSharedEscrow() && pool.SharedEscrowCount != 0 {
		return nil
	}

	return closeAccount(poolAccount, owner)
}

// TryCloseSellState reclaims a sell-state account once its inventory counter
// hits zero. No-op otherwise.
func TryCloseSellState(sellState *types.SellState, sellStateAccount, owner *types.Account) error {
	if sellState.AssetAmount != 0 {
		return nil
	}

	return closeAccount(sellStateAccount, owner)
}

// TryCloseEscrow sweeps a dust-level escrow balance back into the pool.
//
// The floor depends on whether the balance can still grow on its own: a
// reinvesting pool with inventory only needs the bare zero-data minimum,
// otherwise the floor is a basis-point fraction of spot price. Balances of
// zero, or strictly above max(bare minimum, floor), are left untouched;
// anything else is swept in full.
func TryCloseEscrow(ledger types.Ledger, escrowAccount *types.Account, pool *types.Pool, poolAccount *types.Account) error {
	minRent := ledger.MinimumBalance(0)

	var minEscrowBalance uint64
	if pool.ReinvestFulfillSell && pool.SellsideAssetAmount > 0 {
		minEscrowBalance = minRent
	} else {
		floor := new(big.Int).SetUint64(pool.SpotPrice)
		floor.Mul(floor, big.NewInt(types.MinEscrowBalanceBp))
		floor.Div(floor, big.NewInt(types.BasisPointMax))
		if !floor.IsUint64() {
			return types.ErrNumericOverflow
		}
		minEscrowBalance = floor.Uint64()
	}

	escrowLamports := escrowAccount.Lamports
	if escrowLamports == 0 || escrowLamports > lo.Max([]uint64{minRent, minEscrowBalance}) {
		return nil
	}

	return ledger.Transfer(escrowAccount, poolAccount, escrowLamports)
}

// closeAccount zeroes the account state and hands its whole balance to the
// recipient.
func closeAccount(account, recipient *types.Account) error {
	for i := range account.Data {
		account.Data[i] = 0
	}

	sum, carry := bits.Add64(recipient.Lamports, account.Lamports, 0)
	if carry != 0 {
		return types.ErrNumericOverflow
	}
	account.Lamports = 0
	recipient.Lamports = sum
	return nil
}
