// Package nftamm is the entry point for the pool market-maker toolkit: the
// pricing, fee, allowlist and escrow core lives in the subpackages, and New
// wires up an RPC-backed client for reading and quoting live pools.
package nftamm

import (
	"context"

	"go.uber.org/zap"

	"github.com/meme-bots/nft-amm/sol"
	"github.com/meme-bots/nft-amm/types"
)

func New(ctx context.Context, cfg *types.Config, logger *zap.Logger) (*sol.Client, error) {
	return sol.NewClient(ctx, cfg, logger)
}
