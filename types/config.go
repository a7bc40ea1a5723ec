package types

type (
	Config struct {
		Name                string
		RPC                 string
		WSRPC               string
		ProgramID           string
		NativeTokenSymbol   string
		NativeTokenDecimals uint8

		WatchBlockHash bool
	}
)
