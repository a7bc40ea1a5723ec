package allowlist

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/near/borsh-go"

	"github.com/meme-bots/nft-amm/types"
)

var Token2022ProgramID = solana.MPK("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

// Token-2022 mint account layout: 82-byte base mint, padding up to the
// account-type byte at offset 165, then TLV-encoded extensions.
const (
	accountTypeOffset = 165
	accountTypeMint   = 1
)

const (
	ExtensionMetadataPointer    uint16 = 18
	ExtensionTokenMetadata      uint16 = 19
	ExtensionGroupPointer       uint16 = 20
	ExtensionTokenGroup         uint16 = 21
	ExtensionGroupMemberPointer uint16 = 22
	ExtensionTokenGroupMember   uint16 = 23
)

// TokenMetadata is the token-metadata-interface extension state.
type TokenMetadata struct {
	UpdateAuthority    solana.PublicKey
	Mint               solana.PublicKey
	Name               string
	Symbol             string
	Uri                string
	AdditionalMetadata []AdditionalMetadataEntry
}

type AdditionalMetadataEntry struct {
	Key   string
	Value string
}

// ExtMint is a decoded token-2022 mint with its extension TLV entries.
type ExtMint struct {
	Base       token.Mint
	extensions map[uint16][]byte
}

func (m *ExtMint) Extension(extType uint16) ([]byte, bool) {
	data, ok := m.extensions[extType]
	return data, ok
}

func parseExtMint(data []byte) (*ExtMint, error) {
	var base token.Mint
	if err := base.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, types.ErrInvalidTokenMint
	}

	mint := &ExtMint{Base: base, extensions: make(map[uint16][]byte)}
	if len(data) <= accountTypeOffset {
		return mint, nil
	}
	if data[accountTypeOffset] != accountTypeMint {
		return nil, types.ErrInvalidTokenMint
	}

	tlv := data[accountTypeOffset+1:]
	for len(tlv) >= 4 {
		extType := binary.LittleEndian.Uint16(tlv[0:2])
		length := int(binary.LittleEndian.Uint16(tlv[2:4]))
		if extType == 0 {
			break
		}
		if len(tlv) < 4+length {
			return nil, types.ErrInvalidTokenMint
		}
		mint.extensions[extType] = tlv[4 : 4+length]
		tlv = tlv[4+length:]
	}

	return mint, nil
}

// extensionPubkey reads the pubkey at offset inside an extension value.
// A zero key means "not set".
func extensionPubkey(data []byte, offset int) *solana.PublicKey {
	if len(data) < offset+32 {
		return nil
	}
	key := solana.PublicKeyFromBytes(data[offset : offset+32])
	if key.IsZero() {
		return nil
	}
	return &key
}

// validGroup resolves the group the mint belongs to. The member extension
// must reference the mint itself, anything else is a spoofed membership.
func validGroup(mint *ExtMint, tokenMint *types.Account) (*solana.PublicKey, error) {
	member, ok := mint.Extension(ExtensionTokenGroupMember)
	if !ok || len(member) < 64 {
		return nil, types.ErrInvalidTokenMemberExtension
	}
	memberMint := solana.PublicKeyFromBytes(member[0:32])
	if !memberMint.Equals(tokenMint.Key) {
		return nil, types.ErrInvalidTokenMemberExtension
	}
	group := solana.PublicKeyFromBytes(member[32:64])
	return &group, nil
}

// MatchMintExt checks an extension-based (token-2022) asset against
// allowlists and returns the parsed metadata extension when eligible.
//
// The FVCA and MCC kinds have no meaning for extension-based assets and
// reject outright; Group only exists on this path.
func MatchMintExt(
	allowlists []types.Allowlist,
	tokenMint *types.Account,
	aux *string,
) (*TokenMetadata, error) {
	if !tokenMint.Owner.Equals(Token2022ProgramID) || len(tokenMint.Data) == 0 {
		return nil, types.ErrInvalidTokenMint
	}

	mint, err := parseExtMint(tokenMint.Data)
	if err != nil {
		return nil, err
	}
	if !mint.Base.IsInitialized {
		return nil, types.ErrInvalidTokenMint
	}

	// the metadata pointer, when present, must point at the mint itself
	if ptr, ok := mint.Extension(ExtensionMetadataPointer); ok {
		metadataAddress := extensionPubkey(ptr, 32)
		if metadataAddress == nil || !metadataAddress.Equals(tokenMint.Key) {
			return nil, types.ErrInvalidTokenMetadataExtension
		}
	}

	rawMetadata, ok := mint.Extension(ExtensionTokenMetadata)
	if !ok {
		return nil, types.ErrInvalidTokenMetadataExtension
	}
	var parsed TokenMetadata
	if err := borsh.Deserialize(&parsed, rawMetadata); err != nil {
		return nil, types.ErrInvalidTokenMetadataExtension
	}

	if err := checkURI(allowlists, parsed.Uri, aux); err != nil {
		return nil, err
	}

	// same self-reference rule for the group member pointer
	if ptr, ok := mint.Extension(ExtensionGroupMemberPointer); ok {
		memberAddress := extensionPubkey(ptr, 32)
		if memberAddress == nil || !memberAddress.Equals(tokenMint.Key) {
			return nil, types.ErrInvalidTokenMemberExtension
		}
	}

	for i := range allowlists {
		entry := &allowlists[i]
		switch entry.Kind {
		case types.AllowlistKindEmpty:
		case types.AllowlistKindAny:
			return &parsed, nil
		case types.AllowlistKindFVCA:
			return nil, types.ErrInvalidAllowLists
		case types.AllowlistKindMint:
			if tokenMint.Key.Equals(entry.Value) {
				return &parsed, nil
			}
		case types.AllowlistKindMCC:
			return nil, types.ErrInvalidAllowLists
		case types.AllowlistKindGroup:
			group, err := validGroup(mint, tokenMint)
			if err != nil {
				return nil, err
			}
			if !group.Equals(entry.Value) {
				return nil, types.ErrInvalidAllowLists
			}
			return &parsed, nil
		case types.AllowlistKindMetadata:
			// URI already validated above
			continue
		default:
			return nil, types.ErrInvalidAllowLists
		}
	}

	return nil, types.ErrInvalidAllowLists
}
