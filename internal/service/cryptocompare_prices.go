package service

import (
	"context"
	"fmt"
	"strings"

	"EntryFeed/internal/domain/repository"
	phttp "EntryFeed/pkg/http"
)

type cryptoComparePriceSource struct {
	client  *phttp.Client
	url     string
	symbols repository.UniverseSource
}

// NewCryptoComparePriceSource quotes the universe against USD in batches of
// at most 60 symbols per pricemulti call. Keys are bare coin symbols.
func NewCryptoComparePriceSource(client *phttp.Client, url string, symbols repository.UniverseSource) repository.PriceSource {
	return &cryptoComparePriceSource{client: client, url: url, symbols: symbols}
}

const priceMultiBatch = 60

func (c *cryptoComparePriceSource) Prices(ctx context.Context) (map[string]float64, error) {
	syms, err := c.symbols.Symbols()
	if err != nil {
		return nil, fmt.Errorf("resolve universe: %w", err)
	}
	if len(syms) == 0 {
		return nil, fmt.Errorf("empty universe")
	}

	prices := make(map[string]float64, len(syms))
	for start := 0; start < len(syms); start += priceMultiBatch {
		end := min(start+priceMultiBatch, len(syms))
		if err := c.fetchBatch(ctx, syms[start:end], prices); err != nil {
			return nil, err
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("cryptocompare returned no prices")
	}
	return prices, nil
}

func (c *cryptoComparePriceSource) fetchBatch(ctx context.Context, syms []string, out map[string]float64) error {
	var body map[string]map[string]float64
	err := c.client.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    c.url,
		QueryParams: map[string][]string{
			"fsyms": {strings.Join(syms, ",")},
			"tsyms": {"USD"},
		},
	}, &body)
	if err != nil {
		return fmt.Errorf("cryptocompare pricemulti: %w", err)
	}
	for sym, quotes := range body {
		if v := quotes["USD"]; v > 0 {
			out[strings.ToUpper(sym)] = v
		}
	}
	return nil
}
