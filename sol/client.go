package sol

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/near/borsh-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/meme-bots/nft-amm/amm"
	"github.com/meme-bots/nft-amm/types"
	"github.com/meme-bots/nft-amm/utils"
)

type (
	// Client is the RPC-backed view of the on-chain program: it fetches pool
	// and sell-state accounts and turns them into priced quotes.
	Client struct {
		ctx     context.Context
		cfg     *types.Config
		rpc     *rpc.Client
		watcher *Watcher
		cache   *cache.Cache[[]byte]
		logger  *zap.Logger
	}

	// PoolInfo is a quoting snapshot of one pool: raw state plus one-unit
	// quotes in both directions, denominated in SOL.
	PoolInfo struct {
		Pool          types.Pool      `json:"pool"`
		EscrowBalance uint64          `json:"escrowBalance"`
		SpotPrice     decimal.Decimal `json:"spotPrice"`
		BuyPrice      decimal.Decimal `json:"buyPrice"`  // taker buys 1 from the pool
		SellPrice     decimal.Decimal `json:"sellPrice"` // taker sells 1 into the pool
	}
)

const poolInfoTTL = 5 * time.Second

func NewClient(ctx context.Context, cfg *types.Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := NewWatcher(cfg.RPC, cfg.WatchBlockHash)
	if err != nil {
		return nil, err
	}

	cached, err := utils.NewPoolInfoCache()
	if err != nil {
		return nil, err
	}

	return &Client{
		ctx:     ctx,
		cfg:     cfg,
		rpc:     rpc.New(cfg.RPC),
		watcher: watcher,
		cache:   cached,
		logger:  logger,
	}, nil
}

func (c *Client) Start() error {
	return c.watcher.Start()
}

func (c *Client) Close() error {
	return c.watcher.Close()
}

func (c *Client) Watcher() *Watcher {
	return c.watcher
}

// GetPool fetches and decodes a pool account. The first 8 bytes of account
// data are the anchor discriminator and are skipped.
func (c *Client) GetPool(ctx context.Context, key solana.PublicKey) (*types.Pool, error) {
	acc, err := c.rpc.GetAccountInfoWithOpts(
		ctx,
		key,
		&rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentConfirmed},
	)
	if err != nil {
		return nil, err
	}
	if acc.Value == nil {
		return nil, types.ErrNotFound
	}

	data := acc.Value.Data.GetBinary()
	if len(data) <= 8 {
		return nil, types.ErrInvalidPool
	}

	var pool types.Pool
	if err := borsh.Deserialize(&pool, data[8:]); err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetSellState fetches and decodes the sell-state account for a pool and
// asset mint.
func (c *Client) GetSellState(ctx context.Context, pool, assetMint solana.PublicKey) (*types.SellState, error) {
	key, _ := amm.FindSellState(pool, assetMint)

	acc, err := c.rpc.GetAccountInfoWithOpts(
		ctx,
		key,
		&rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentConfirmed},
	)
	if err != nil {
		return nil, err
	}
	if acc.Value == nil {
		return nil, types.ErrNotFound
	}

	data := acc.Value.Data.GetBinary()
	if len(data) <= 8 {
		return nil, types.ErrNotFound
	}

	var sellState types.SellState
	if err := borsh.Deserialize(&sellState, data[8:]); err != nil {
		return nil, err
	}
	return &sellState, nil
}

// GetPoolInfo fetches the pool and its buy-side escrow in one round trip and
// quotes a single unit in both directions with no referral fees applied.
func (c *Client) GetPoolInfo(ctx context.Context, poolKey solana.PublicKey) (*PoolInfo, error) {
	escrowKey, _ := amm.FindBuysideEscrow(poolKey)

	accounts, err := c.rpc.GetMultipleAccountsWithOpts(
		ctx,
		[]solana.PublicKey{poolKey, escrowKey},
		&rpc.GetMultipleAccountsOpts{Commitment: rpc.CommitmentConfirmed},
	)
	if err != nil {
		return nil, err
	}
	if accounts.Value[0] == nil {
		return nil, types.ErrNotFound
	}

	data := accounts.Value[0].Data.GetBinary()
	if len(data) <= 8 {
		return nil, types.ErrInvalidPool
	}
	var pool types.Pool
	if err := borsh.Deserialize(&pool, data[8:]); err != nil {
		return nil, err
	}

	var escrowBalance uint64
	if accounts.Value[1] != nil {
		escrowBalance = accounts.Value[1].Lamports
	}

	info := &PoolInfo{
		Pool:          pool,
		EscrowBalance: escrowBalance,
		SpotPrice:     utils.LamportsToSol(pool.SpotPrice),
	}

	owner := &types.Account{Key: pool.Owner}
	buysideEscrow := &types.Account{Key: escrowKey, Lamports: escrowBalance}

	if buyQuote, err := amm.QuoteSellFulfill(&pool, owner, buysideEscrow, 1, 0, 0); err == nil {
		info.BuyPrice = utils.LamportsToSol(buyQuote.TotalPrice)
	} else {
		c.logger.Debug("buy quote unavailable", zap.Stringer("pool", poolKey), zap.Error(err))
	}
	if sellQuote, err := amm.QuoteBuyFulfill(&pool, buysideEscrow, 1, 0, 0); err == nil {
		info.SellPrice = utils.LamportsToSol(sellQuote.TotalPrice)
	} else {
		c.logger.Debug("sell quote unavailable", zap.Stringer("pool", poolKey), zap.Error(err))
	}

	return info, nil
}

// GetPoolInfoWithCache is GetPoolInfo behind a short-lived cache, for hot
// quoting paths that tolerate slightly stale state.
func (c *Client) GetPoolInfoWithCache(ctx context.Context, poolKey solana.PublicKey) (*PoolInfo, error) {
	key := "GetPoolInfo:" + poolKey.String()

	data, ttl, err := c.cache.GetWithTTL(ctx, key)
	if err == nil {
		if ttl < poolInfoTTL {
			var info PoolInfo
			err = json.Unmarshal(data, &info)
			if err != nil {
				return nil, err
			}
			return &info, nil
		}
	}

	info, err := c.GetPoolInfo(ctx, poolKey)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(info)
	if err == nil {
		c.cache.Set(ctx, key, data, store.WithExpiration(poolInfoTTL))
	}

	return info, nil
}
