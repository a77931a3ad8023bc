package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrices(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPriceFileFlatMap(t *testing.T) {
	src := NewPriceFileSource(writePrices(t, `{"BTCUSDT": 65000.5, "ethusdt": "3200"}`))
	prices, err := src.Prices(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 65000.5, prices["BTCUSDT"], 1e-9)
	assert.InDelta(t, 3200, prices["ETHUSDT"], 1e-9)
}

func TestPriceFileWrappedMap(t *testing.T) {
	src := NewPriceFileSource(writePrices(t, `{"prices": {"BTC": 65000}}`))
	prices, err := src.Prices(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 65000, prices["BTC"], 1e-9)
}

func TestPriceFileNestedObjects(t *testing.T) {
	src := NewPriceFileSource(writePrices(t, `{"BTC": {"price": 65000}, "ETH": {"usd": 3200}, "JUNK": {"volume": 1}}`))
	prices, err := src.Prices(context.Background())
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.InDelta(t, 65000, prices["BTC"], 1e-9)
	assert.InDelta(t, 3200, prices["ETH"], 1e-9)
}

func TestPriceFileRejectsEmpty(t *testing.T) {
	src := NewPriceFileSource(writePrices(t, `{"BTC": 0, "ETH": -1}`))
	_, err := src.Prices(context.Background())
	require.Error(t, err)
}

func TestPriceFileMissing(t *testing.T) {
	src := NewPriceFileSource(filepath.Join(t.TempDir(), "nope.json"))
	_, err := src.Prices(context.Background())
	require.Error(t, err)
}
