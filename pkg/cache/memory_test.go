package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPriceCacheFillAndSnapshot(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryPriceCache()

	require.NoError(t, c.Fill(ctx, map[string]float64{"BTCUSDT": 65000, "ETHUSDT": 3200}))
	require.NoError(t, c.Fill(ctx, map[string]float64{"BTCUSDT": 66000, "BAD": 0}))

	snap, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 66000, snap["BTCUSDT"], 1e-9)
	assert.InDelta(t, 3200, snap["ETHUSDT"], 1e-9)
	assert.NotContains(t, snap, "BAD")
}

func TestMemoryPriceCacheSnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryPriceCache()
	require.NoError(t, c.Fill(ctx, map[string]float64{"BTCUSDT": 65000}))

	snap, err := c.Snapshot(ctx)
	require.NoError(t, err)
	snap["BTCUSDT"] = 1

	again, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 65000, again["BTCUSDT"], 1e-9)
}
