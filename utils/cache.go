package utils

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	rstore "github.com/eko/gocache/store/ristretto/v4"
)

// NewPoolInfoCache builds the byte cache backing pool-info lookups. Entries
// are json-serialized pool snapshots of a few hundred bytes each, keyed by
// pool address, so cost is the payload length and MaxCost bounds the
// resident bytes rather than the entry count.
func NewPoolInfoCache() (*cache.Cache[[]byte], error) {
	rcache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000, // ~10x the pools expected hot at once
		MaxCost:     16 << 20,
		BufferItems: 64,
		Cost: func(value interface{}) int64 {
			if data, ok := value.([]byte); ok {
				return int64(len(data))
			}
			return 1
		},
	})
	if err != nil {
		return nil, err
	}

	store_ := rstore.NewRistretto(rcache)
	manager := cache.New[[]byte](store_)
	return manager, nil
}
