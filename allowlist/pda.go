package allowlist

import "github.com/gagliardetto/solana-go"

var TokenMetadataProgramID = solana.MPK("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

func FindMasterEditionAddress(mint solana.PublicKey) solana.PublicKey {
	masterEdition, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			TokenMetadataProgramID.Bytes(),
			mint.Bytes(),
			[]byte("edition"),
		},
		TokenMetadataProgramID,
	)
	return masterEdition
}
