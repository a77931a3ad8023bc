package cache

import (
	"context"
	"sync"
)

// MemoryPriceCache keeps the last good price per symbol in process memory.
// It is the default backend when Redis is not configured.
type MemoryPriceCache struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewMemoryPriceCache creates an in-memory price cache.
func NewMemoryPriceCache() *MemoryPriceCache {
	return &MemoryPriceCache{prices: make(map[string]float64)}
}

// Fill merges the given prices into the cache. Zero and negative values are
// ignored so a bad tick never clobbers a good price.
func (m *MemoryPriceCache) Fill(ctx context.Context, prices map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sym, v := range prices {
		if v > 0 {
			m.prices[sym] = v
		}
	}
	return nil
}

// Snapshot returns a copy of the cached prices.
func (m *MemoryPriceCache) Snapshot(ctx context.Context) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.prices))
	for sym, v := range m.prices {
		out[sym] = v
	}
	return out, nil
}
