package amm

import "github.com/gagliardetto/solana-go"

var ProgramID = solana.MPK("mmm3XBJg5gk8XJxEKBvdgptZz6SgK4tXvn36sodowMc")

const (
	poolPrefix          = "mmm_pool"
	buysideEscrowPrefix = "mmm_buyside_sol_escrow_account"
	sellStatePrefix     = "mmm_sell_state"
)

// FindPool derives the pool account for an owner and pool uuid.
func FindPool(owner, uuid solana.PublicKey) (solana.PublicKey, uint8) {
	pool, bump, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte(poolPrefix),
			owner.Bytes(),
			uuid.Bytes(),
		},
		ProgramID,
	)
	return pool, bump
}

// FindBuysideEscrow derives the pool's dedicated buy-side escrow account.
func FindBuysideEscrow(pool solana.PublicKey) (solana.PublicKey, uint8) {
	escrow, bump, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte(buysideEscrowPrefix),
			pool.Bytes(),
		},
		ProgramID,
	)
	return escrow, bump
}

// FindSellState derives the per-(pool, asset mint) sell-state account.
func FindSellState(pool, assetMint solana.PublicKey) (solana.PublicKey, uint8) {
	sellState, bump, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte(sellStatePrefix),
			pool.Bytes(),
			assetMint.Bytes(),
		},
		ProgramID,
	)
	return sellState, bump
}
