package types

import "errors"

var (
	ErrNumericOverflow = errors.New("numeric overflow")

	ErrInvalidCurveType = errors.New("invalid curve type")

	ErrInvalidCurveDelta = errors.New("invalid curve delta")

	ErrInvalidPool = errors.New("invalid pool")

	ErrInvalidBP = errors.New("invalid basis point value")

	ErrInvalidAllowLists = errors.New("invalid allowlists")

	ErrUnexpectedMetadataUri = errors.New("unexpected metadata uri")

	ErrInvalidTokenMint = errors.New("invalid token mint")

	ErrInvalidTokenMetadataExtension = errors.New("invalid token metadata extension")

	ErrInvalidTokenMemberExtension = errors.New("invalid token member extension")

	ErrInvalidMakerOrTakerFeeBp = errors.New("invalid maker or taker fee bp")

	ErrInvalidMetadataCreatorRoyalty = errors.New("invalid metadata creator royalty")

	ErrInvalidCreatorAddress = errors.New("invalid creator address")

	ErrNotEnoughBalance = errors.New("not enough balance")

	ErrInvalidMasterEdition = errors.New("invalid master edition")

	ErrInvalidTokenStandard = errors.New("invalid token standard")

	ErrInvalidRemainingAccounts = errors.New("invalid remaining accounts")

	ErrInvalidAccountOwner = errors.New("account owned by wrong program")

	ErrInvalidDerivation = errors.New("account does not match derived address")

	ErrNotFound = errors.New("not found")
)
