// Package escrow manages buy-side escrow accounts and the reclamation of
// pool, escrow, and per-seller accounts.
package escrow

import (
	"math/bits"

	"github.com/meme-bots/nft-amm/types"
)

// NativeLedger is the in-process implementation of types.Ledger: lamport
// moves over injected accounts with a rent-style minimum-balance floor. The
// on-chain runtime supplies the real one; this one backs simulation and
// tests.
type NativeLedger struct {
	RentBase  uint64
	RentPrice uint64
}

func NewNativeLedger() *NativeLedger {
	return &NativeLedger{
		RentBase:  types.RentBase,
		RentPrice: types.RentPrice,
	}
}

func (l *NativeLedger) MinimumBalance(dataLen uint64) uint64 {
	return (l.RentBase + dataLen) * l.RentPrice
}

func (l *NativeLedger) Transfer(from, to *types.Account, lamports uint64) error {
	if from.Lamports < lamports {
		return types.ErrNotEnoughBalance
	}
	sum, carry := bits.Add64(to.Lamports, lamports, 0)
	if carry != 0 {
		return types.ErrNumericOverflow
	}
	from.Lamports -= lamports
	to.Lamports = sum
	return nil
}
