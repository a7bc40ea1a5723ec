package escrow

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/meme-bots/nft-amm/types"
)

// The shared-escrow collaborator: a third-party marketplace escrow program
// exposing withdraw-on-behalf for pools whose buy-side funds live in its
// pooled escrow.
var (
	SharedEscrowProgramID    = solana.MPK("M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K")
	SharedEscrowAuctionHouse = solana.MPK("E8cU1WiRWjanGxmn96ewBgk9vPTcL6AEZ1t6F6fkgUWe")
)

const sharedEscrowPrefix = "m2"

// anchor-style instruction discriminator
var withdrawDiscriminator = func() [8]byte {
	sum := sha256.Sum256([]byte("global:withdraw_by_mmm"))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}()

type WithdrawArgs struct {
	Wallet       solana.PublicKey
	AuctionHouse solana.PublicKey
	Amount       uint64
	PoolUuid     solana.PublicKey
}

// FindSharedEscrow derives the collaborator's escrow account for a wallet.
func FindSharedEscrow(wallet solana.PublicKey) (solana.PublicKey, uint8) {
	pda, bump, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte(sharedEscrowPrefix),
			SharedEscrowAuctionHouse.Bytes(),
			wallet.Bytes(),
		},
		SharedEscrowProgramID,
	)
	return pda, bump
}

// NewWithdrawInstruction builds the withdraw-on-behalf instruction moving
// amount from the shared escrow to the caller-supplied destination.
func NewWithdrawInstruction(
	pool, to, sharedEscrowAccount solana.PublicKey,
	args WithdrawArgs,
) (solana.Instruction, error) {
	body, err := borsh.Serialize(args)
	if err != nil {
		return nil, err
	}
	data := append(withdrawDiscriminator[:], body...)

	return &solana.GenericInstruction{
		ProgID: SharedEscrowProgramID,
		AccountValues: solana.AccountMetaSlice{
			{PublicKey: pool, IsSigner: true, IsWritable: true},
			{PublicKey: to, IsSigner: false, IsWritable: true},
			{PublicKey: sharedEscrowAccount, IsSigner: false, IsWritable: true},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		DataBytes: data,
	}, nil
}

// CheckRemainingAccounts validates the caller-supplied account tail for a
// shared-escrow trade: position 0 must be the escrow program, position 1 the
// pool owner's escrow account at its canonical derivation.
func CheckRemainingAccounts(remaining []*types.Account, poolOwner solana.PublicKey) error {
	if len(remaining) < 2 {
		return types.ErrInvalidRemainingAccounts
	}

	if !remaining[0].Key.Equals(SharedEscrowProgramID) {
		return types.ErrInvalidRemainingAccounts
	}

	sharedEscrowPDA, _ := FindSharedEscrow(poolOwner)
	if !sharedEscrowPDA.Equals(remaining[1].Key) {
		return types.ErrInvalidRemainingAccounts
	}

	return nil
}
