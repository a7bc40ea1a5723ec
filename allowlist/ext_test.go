package allowlist

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"

	"github.com/meme-bots/nft-amm/types"
)

type tlvEntry struct {
	typ   uint16
	value []byte
}

// makeExtMintData lays out a token-2022 mint: 82-byte base with the
// initialized flag set, padding, the mint account-type byte, then the TLV
// extension entries.
func makeExtMintData(entries ...tlvEntry) []byte {
	data := make([]byte, accountTypeOffset+1)
	data[45] = 1 // base mint IsInitialized
	data[accountTypeOffset] = accountTypeMint

	for _, e := range entries {
		hdr := make([]byte, 4)
		binary.LittleEndian.PutUint16(hdr[0:2], e.typ)
		binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(e.value)))
		data = append(data, hdr...)
		data = append(data, e.value...)
	}
	return data
}

func metadataEntry(t *testing.T, mint solana.PublicKey, uri string) tlvEntry {
	t.Helper()
	raw, err := borsh.Serialize(TokenMetadata{
		Mint:   mint,
		Name:   "Degen #1",
		Symbol: "DGN",
		Uri:    uri,
	})
	require.NoError(t, err)
	return tlvEntry{typ: ExtensionTokenMetadata, value: raw}
}

func memberEntry(mint, group solana.PublicKey) tlvEntry {
	value := make([]byte, 64)
	copy(value[0:32], mint.Bytes())
	copy(value[32:64], group.Bytes())
	return tlvEntry{typ: ExtensionTokenGroupMember, value: value}
}

func pointerEntry(typ uint16, authority, address solana.PublicKey) tlvEntry {
	value := make([]byte, 64)
	copy(value[0:32], authority.Bytes())
	copy(value[32:64], address.Bytes())
	return tlvEntry{typ: typ, value: value}
}

func extMintAccount(mint solana.PublicKey, entries ...tlvEntry) *types.Account {
	return &types.Account{
		Key:   mint,
		Owner: Token2022ProgramID,
		Data:  makeExtMintData(entries...),
	}
}

func TestMatchMintExtAny(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	account := extMintAccount(mint, metadataEntry(t, mint, "https://arweave.net/1"))

	parsed, err := MatchMintExt(anyList(), account, nil)
	require.NoError(t, err)
	require.Equal(t, "Degen #1", parsed.Name)
}

func TestMatchMintExtWrongOwner(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	account := extMintAccount(mint, metadataEntry(t, mint, ""))
	account.Owner = solana.TokenProgramID

	_, err := MatchMintExt(anyList(), account, nil)
	require.ErrorIs(t, err, types.ErrInvalidTokenMint)
}

func TestMatchMintExtUninitialized(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	account := extMintAccount(mint, metadataEntry(t, mint, ""))
	account.Data[45] = 0

	_, err := MatchMintExt(anyList(), account, nil)
	require.ErrorIs(t, err, types.ErrInvalidTokenMint)
}

func TestMatchMintExtMissingMetadata(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	account := extMintAccount(mint)

	_, err := MatchMintExt(anyList(), account, nil)
	require.ErrorIs(t, err, types.ErrInvalidTokenMetadataExtension)
}

func TestMatchMintExtMetadataPointer(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	// pointer at the mint itself is the only accepted shape
	account := extMintAccount(mint,
		pointerEntry(ExtensionMetadataPointer, authority, mint),
		metadataEntry(t, mint, ""),
	)
	_, err := MatchMintExt(anyList(), account, nil)
	require.NoError(t, err)

	account = extMintAccount(mint,
		pointerEntry(ExtensionMetadataPointer, authority, solana.NewWallet().PublicKey()),
		metadataEntry(t, mint, ""),
	)
	_, err = MatchMintExt(anyList(), account, nil)
	require.ErrorIs(t, err, types.ErrInvalidTokenMetadataExtension)
}

func TestMatchMintExtGroup(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	group := solana.NewWallet().PublicKey()
	account := extMintAccount(mint,
		metadataEntry(t, mint, ""),
		memberEntry(mint, group),
	)

	allowlists := []types.Allowlist{{Kind: types.AllowlistKindGroup, Value: group}}
	_, err := MatchMintExt(allowlists, account, nil)
	require.NoError(t, err)

	allowlists[0].Value = solana.NewWallet().PublicKey()
	_, err = MatchMintExt(allowlists, account, nil)
	require.ErrorIs(t, err, types.ErrInvalidAllowLists)
}

func TestMatchMintExtGroupSpoofedMember(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	group := solana.NewWallet().PublicKey()
	// member extension referencing some other mint
	account := extMintAccount(mint,
		metadataEntry(t, mint, ""),
		memberEntry(solana.NewWallet().PublicKey(), group),
	)

	allowlists := []types.Allowlist{{Kind: types.AllowlistKindGroup, Value: group}}
	_, err := MatchMintExt(allowlists, account, nil)
	require.ErrorIs(t, err, types.ErrInvalidTokenMemberExtension)
}

func TestMatchMintExtLegacyKindsRejected(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	account := extMintAccount(mint, metadataEntry(t, mint, ""))

	for _, kind := range []uint8{types.AllowlistKindFVCA, types.AllowlistKindMCC} {
		allowlists := []types.Allowlist{{Kind: kind, Value: solana.NewWallet().PublicKey()}}
		_, err := MatchMintExt(allowlists, account, nil)
		require.ErrorIs(t, err, types.ErrInvalidAllowLists)
	}
}

func TestMatchMintExtURIGate(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	allowlists := []types.Allowlist{
		{Kind: types.AllowlistKindMetadata},
		{Kind: types.AllowlistKindMint, Value: mint},
	}
	aux := "https://collection.example/"

	account := extMintAccount(mint, metadataEntry(t, mint, "https://collection.example/1.json"))
	_, err := MatchMintExt(allowlists, account, &aux)
	require.NoError(t, err)

	account = extMintAccount(mint, metadataEntry(t, mint, "https://elsewhere.example/1.json"))
	_, err = MatchMintExt(allowlists, account, &aux)
	require.ErrorIs(t, err, types.ErrUnexpectedMetadataUri)
}

func TestParseExtMintTruncatedTLV(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	data := makeExtMintData(tlvEntry{typ: ExtensionTokenMetadata, value: []byte{1, 2, 3}})
	// header claims more bytes than present
	binary.LittleEndian.PutUint16(data[accountTypeOffset+3:accountTypeOffset+5], 100)

	account := &types.Account{Key: mint, Owner: Token2022ProgramID, Data: data}
	_, err := MatchMintExt(anyList(), account, nil)
	require.ErrorIs(t, err, types.ErrInvalidTokenMint)
}
