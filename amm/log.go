package amm

import (
	"encoding/base64"

	"github.com/near/borsh-go"
	"go.uber.org/zap"

	"github.com/meme-bots/nft-amm/types"
)

// LogPool emits an opaque serialized pool snapshot for off-chain
// observability, plus the counters dashboards actually key on.
func LogPool(logger *zap.Logger, event string, pool *types.Pool) {
	data, err := borsh.Serialize(*pool)
	if err != nil {
		logger.Warn("pool snapshot serialization failed", zap.String("event", event), zap.Error(err))
		return
	}

	logger.Info(event,
		zap.String("pool_state", base64.StdEncoding.EncodeToString(data)),
		zap.Uint64("spot_price", pool.SpotPrice),
		zap.Uint64("sellside_asset_amount", pool.SellsideAssetAmount),
		zap.Uint64("buyside_payment_amount", pool.BuysidePaymentAmount),
	)
}
