// Package allowlist decides whether an asset is eligible to trade against a
// pool. A pool's allowlist entries are unioned: the first matching entry
// grants eligibility.
package allowlist

import (
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/meme-bots/nft-amm/types"
	"github.com/meme-bots/nft-amm/utils"
)

// CheckAllowlists validates a pool's allowlist configuration.
func CheckAllowlists(allowlists []types.Allowlist) error {
	for i := range allowlists {
		if !allowlists[i].Valid() {
			return types.ErrInvalidAllowLists
		}
	}

	return nil
}

func hasKind(allowlists []types.Allowlist, kind uint8) bool {
	for i := range allowlists {
		if allowlists[i].Kind == kind {
			return true
		}
	}
	return false
}

// checkURI gates the asset's metadata URI on the auxiliary prefix. It runs
// once, before the union loop, because it constrains the asset regardless of
// which entry ends up matching.
func checkURI(allowlists []types.Allowlist, uri string, aux *string) error {
	if !hasKind(allowlists, types.AllowlistKindMetadata) {
		return nil
	}
	// no aux prefix supplied, nothing to validate against
	if aux == nil {
		return nil
	}
	if !strings.HasPrefix(utils.TrimSpace(uri), *aux) {
		return types.ErrUnexpectedMetadataUri
	}
	return nil
}

// masterEditionVersionValid reports whether an initialized master edition
// account carries a recognized version tag.
func masterEditionVersionValid(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	version := data[0]
	return version == 2 || version == 6
}

// MatchMetadata checks a legacy metadata-account asset against allowlists
// and returns the parsed metadata when eligible.
//
// Structural checks run first: the metadata account must be owned by the
// token-metadata program and sit at the canonical derivation for the mint;
// a supplied master edition must be canonically derived too and, if already
// initialized, carry a recognized version tag. Then entries are tried in
// order, first match wins.
func MatchMetadata(
	allowlists []types.Allowlist,
	mint *types.Account,
	metadata *types.Account,
	masterEdition *types.Account,
	aux *string,
) (*Metadata, error) {
	if !metadata.Owner.Equals(TokenMetadataProgramID) {
		return nil, types.ErrInvalidAccountOwner
	}
	metadataPDA, _, err := solana.FindTokenMetadataAddress(mint.Key)
	if err != nil || !metadataPDA.Equals(metadata.Key) {
		return nil, types.ErrInvalidDerivation
	}

	parsed, err := MetadataDeserialize(metadata.Data)
	if err != nil {
		return nil, err
	}

	if masterEdition != nil {
		if !FindMasterEditionAddress(mint.Key).Equals(masterEdition.Key) {
			return nil, types.ErrInvalidDerivation
		}
		if len(masterEdition.Data) != 0 {
			if !masterEdition.Owner.Equals(TokenMetadataProgramID) {
				return nil, types.ErrInvalidAccountOwner
			}
			if !masterEditionVersionValid(masterEdition.Data) {
				return nil, types.ErrInvalidMasterEdition
			}
		}
	}

	if err := checkURI(allowlists, parsed.Data.Uri, aux); err != nil {
		return nil, err
	}

	for i := range allowlists {
		entry := &allowlists[i]
		switch entry.Kind {
		case types.AllowlistKindEmpty:
		case types.AllowlistKindAny:
			return &parsed, nil
		case types.AllowlistKindFVCA:
			if creators := parsed.Data.Creators; creators != nil && len(*creators) > 0 {
				first := (*creators)[0]
				if first.Address.Equals(entry.Value) && first.Verified {
					return &parsed, nil
				}
			}
		case types.AllowlistKindMint:
			if mint.Key.Equals(entry.Value) {
				return &parsed, nil
			}
		case types.AllowlistKindMCC:
			if collection := parsed.Collection; collection != nil {
				if collection.Key.Equals(entry.Value) && collection.Verified {
					return &parsed, nil
				}
			}
		case types.AllowlistKindMetadata:
			// URI already validated above; the checks are separate because
			// entries are unioned together.
			continue
		default:
			// Group entries only apply to extension-based assets.
			return nil, types.ErrInvalidAllowLists
		}
	}

	// no entry granted eligibility
	return nil, types.ErrInvalidAllowLists
}
