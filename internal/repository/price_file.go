package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/util"
)

type priceFileSource struct {
	path string
}

// NewPriceFileSource reads prices from a JSON snapshot on disk. The file may
// be a flat symbol-to-price map, wrap the map under a "prices" key, or nest
// per-symbol objects holding a numeric price field.
func NewPriceFileSource(path string) repository.PriceSource {
	return &priceFileSource{path: path}
}

func (p *priceFileSource) Prices(ctx context.Context) (map[string]float64, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read price file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode price file: %w", err)
	}
	if inner, ok := doc["prices"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil {
			doc = nested
		}
	}

	prices := make(map[string]float64, len(doc))
	for sym, raw := range doc {
		if v, ok := decodePrice(raw); ok && v > 0 {
			prices[strings.ToUpper(sym)] = v
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("price file %s has no usable prices", p.path)
	}
	return prices, nil
}

// decodePrice accepts a bare number, a numeric string, or an object with a
// price-like field one level deep.
func decodePrice(raw json.RawMessage) (float64, bool) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, true
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		v := util.ParseFloatDefault(str, -1)
		return v, v >= 0
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, false
	}
	for _, key := range []string{"price", "preco", "last", "usd", "USD"} {
		if inner, ok := obj[key]; ok {
			if err := json.Unmarshal(inner, &num); err == nil {
				return num, true
			}
		}
	}
	return 0, false
}
