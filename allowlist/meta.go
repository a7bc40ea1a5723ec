package allowlist

import (
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/meme-bots/nft-amm/types"
)

type Data struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             *[]types.Creator
}

func MetadataDeserialize(data []byte) (Metadata, error) {
	var metadata Metadata

	err := borsh.Deserialize(&metadata, data)
	return metadata, err
}

type Metadata struct {
	Key                 uint8
	UpdateAuthority     solana.PublicKey
	Mint                solana.PublicKey
	Data                Data
	PrimarySaleHappened bool
	IsMutable           bool
	EditionNonce        *uint8
	TokenStandard       *uint8
	Collection          *Collection
	Uses                *Uses
	CollectionDetails   *CollectionDetails
	ProgrammableConfig  *ProgrammableConfig
}

type Collection struct {
	Verified bool
	Key      solana.PublicKey
}

type Uses struct {
	UseMethod uint8
	Remaining uint64
	Total     uint64
}

type CollectionDetails struct {
	Enum borsh.Enum `borsh_enum:"true"`
	V1   CollectionDetailsV1
}

type CollectionDetailsV1 struct {
	Size uint64
}

type ProgrammableConfig struct {
	Enum borsh.Enum `borsh_enum:"true"`
	V1   ProgrammableConfigV1
}

type ProgrammableConfigV1 struct {
	RuleSet *solana.PublicKey
}

const (
	TokenStandardNonFungible             uint8 = 0
	TokenStandardFungibleAsset           uint8 = 1
	TokenStandardFungible                uint8 = 2
	TokenStandardNonFungibleEdition      uint8 = 3
	TokenStandardProgrammableNonFungible uint8 = 4
)

// AssertProgrammable fails unless the asset is a programmable non-fungible.
func AssertProgrammable(metadata *Metadata) error {
	if metadata.TokenStandard != nil && *metadata.TokenStandard == TokenStandardProgrammableNonFungible {
		return nil
	}
	return types.ErrInvalidTokenStandard
}
