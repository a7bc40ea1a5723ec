package types

import (
	"github.com/gagliardetto/solana-go"
)

type (
	// Pool is the on-chain liquidity position account. Field order is the
	// borsh account layout, do not reorder.
	Pool struct {
		SpotPrice               uint64
		CurveType               uint8
		CurveDelta              uint64
		ReinvestFulfillBuy      bool
		ReinvestFulfillSell     bool
		ExpiresAt               int64
		LpFeeBp                 uint16
		BuysideCreatorRoyaltyBp uint16
		Owner                   solana.PublicKey
		Cosigner                solana.PublicKey
		Uuid                    solana.PublicKey
		PaymentMint             solana.PublicKey
		Allowlists              [AllowlistMaxLen]Allowlist
		SellsideAssetAmount     uint64
		SharedEscrowAccount     solana.PublicKey
		SharedEscrowCount       uint64
		BuysidePaymentAmount    uint64
	}

	// SellState tracks how many units of one asset class a pool holds for
	// resale. One account per (pool, asset mint).
	SellState struct {
		Pool        solana.PublicKey
		PoolOwner   solana.PublicKey
		AssetMint   solana.PublicKey
		AssetAmount uint64
	}

	// Allowlist is a single eligibility criterion. A pool carries a fixed
	// array of them, unioned together: any single match grants eligibility.
	Allowlist struct {
		Kind  uint8
		Value solana.PublicKey
	}

	// Creator is one royalty recipient declared by an asset's metadata.
	// Share is an integer percentage, all shares summing to 100.
	Creator struct {
		Address  solana.PublicKey
		Verified bool
		Share    uint8
	}

	// Account is the ledger-account view the core operates on. The host
	// runtime owns the real accounts; the core only reads keys, owners,
	// balances and raw data, and moves lamports through a Ledger.
	Account struct {
		Key      solana.PublicKey
		Owner    solana.PublicKey
		Lamports uint64
		Data     []byte
	}

	// PoolPriceInfo is the fully computed price breakdown for one fulfillment.
	PoolPriceInfo struct {
		TotalPrice    uint64
		NextPrice     uint64
		LpFee         uint64
		MakerFee      int64
		TakerFee      int64
		ReferralFee   uint64
		TransferSolTo *Account
	}
)

// Ledger is the native-currency transfer collaborator. Transfer must be
// atomic: either the full amount moves or nothing does.
type Ledger interface {
	MinimumBalance(dataLen uint64) uint64
	Transfer(from, to *Account, lamports uint64) error
}

func (p *Pool) UsingSharedEscrow() bool {
	return !p.SharedEscrowAccount.IsZero()
}

func (a *Allowlist) Valid() bool {
	return a.Kind <= AllowlistKindGroup
}

func (a *Allowlist) IsEmpty() bool {
	return a.Kind == AllowlistKindEmpty
}
