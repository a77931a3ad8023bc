package service

import (
	"context"
	"fmt"
	"strings"

	"EntryFeed/internal/domain/repository"
	phttp "EntryFeed/pkg/http"
	"EntryFeed/pkg/util"
)

type binancePriceSource struct {
	client *phttp.Client
	url    string
}

// NewBinancePriceSource fetches the full spot ticker table in one bulk call.
// Keys are venue-native symbols such as BTCUSDT.
func NewBinancePriceSource(client *phttp.Client, url string) repository.PriceSource {
	return &binancePriceSource{client: client, url: url}
}

type binanceTicker struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (b *binancePriceSource) Prices(ctx context.Context) (map[string]float64, error) {
	var tickers []binanceTicker
	err := b.client.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    b.url,
	}, &tickers)
	if err != nil {
		return nil, fmt.Errorf("binance ticker fetch: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("binance returned no tickers")
	}

	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		v := util.ParseFloatDefault(t.Price, 0)
		if v > 0 {
			prices[strings.ToUpper(t.Symbol)] = v
		}
	}
	return prices, nil
}
