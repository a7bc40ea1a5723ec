package escrow

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/meme-bots/nft-amm/types"
)

func TestFindSharedEscrowDeterministic(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	pda1, bump1 := FindSharedEscrow(wallet)
	pda2, bump2 := FindSharedEscrow(wallet)
	require.Equal(t, pda1, pda2)
	require.Equal(t, bump1, bump2)
	require.False(t, pda1.IsZero())

	other, _ := FindSharedEscrow(solana.NewWallet().PublicKey())
	require.NotEqual(t, pda1, other)
}

func TestNewWithdrawInstruction(t *testing.T) {
	pool := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	wallet := solana.NewWallet().PublicKey()
	sharedEscrow, _ := FindSharedEscrow(wallet)

	ix, err := NewWithdrawInstruction(pool, to, sharedEscrow, WithdrawArgs{
		Wallet:       wallet,
		AuctionHouse: SharedEscrowAuctionHouse,
		Amount:       1_000_000,
		PoolUuid:     solana.NewWallet().PublicKey(),
	})
	require.NoError(t, err)
	require.Equal(t, SharedEscrowProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 4)
	require.Equal(t, pool, accounts[0].PublicKey)
	require.True(t, accounts[0].IsSigner)
	require.Equal(t, to, accounts[1].PublicKey)
	require.Equal(t, sharedEscrow, accounts[2].PublicKey)
	require.Equal(t, solana.SystemProgramID, accounts[3].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	// 8-byte discriminator + wallet + auction house + amount + uuid
	require.Len(t, data, 8+32+32+8+32)
	require.Equal(t, withdrawDiscriminator[:], data[:8])
}

func TestCheckRemainingAccounts(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	sharedEscrow, _ := FindSharedEscrow(owner)

	remaining := []*types.Account{
		{Key: SharedEscrowProgramID},
		{Key: sharedEscrow},
	}
	require.NoError(t, CheckRemainingAccounts(remaining, owner))

	require.ErrorIs(t, CheckRemainingAccounts(remaining[:1], owner), types.ErrInvalidRemainingAccounts)

	wrongProgram := []*types.Account{
		{Key: solana.NewWallet().PublicKey()},
		{Key: sharedEscrow},
	}
	require.ErrorIs(t, CheckRemainingAccounts(wrongProgram, owner), types.ErrInvalidRemainingAccounts)

	wrongEscrow := []*types.Account{
		{Key: SharedEscrowProgramID},
		{Key: solana.NewWallet().PublicKey()},
	}
	require.ErrorIs(t, CheckRemainingAccounts(wrongEscrow, owner), types.ErrInvalidRemainingAccounts)
}
