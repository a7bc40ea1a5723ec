package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TrimSpace trims whitespace and the NUL padding that fixed-width on-chain
// strings carry.
func TrimSpace(s string) string {
	s = strings.TrimSpace(s)
	var m, n int

	for i := 0; i < len(s); i++ {
		if s[i] != 0 {
			m = i
			break
		}
	}

	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != 0 {
			n = i + 1
			break
		}
	}

	return s[m:n]
}

func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(decimal.New(1, 9))
}

func SolToLamports(sol decimal.Decimal) uint64 {
	return sol.Mul(decimal.New(1, 9)).BigInt().Uint64()
}
