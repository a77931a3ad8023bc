package repository

import (
	"context"

	"EntryFeed/internal/domain/models"
)

// PriceSource supplies current prices keyed by quote symbol (e.g. BTCUSDT)
// in one bulk call. A missing symbol is not an error; it simply resolves to
// price 0 downstream.
type PriceSource interface {
	Prices(ctx context.Context) (map[string]float64, error)
}

// StudySource loads the historical percentile study table.
type StudySource interface {
	Load(ctx context.Context) ([]models.StudyEntry, error)
}

// UniverseSource supplies the curated symbol universe, deduplicated and
// validated, in file order.
type UniverseSource interface {
	Symbols() ([]string, error)
}

// FeedStore persists and reads back the feed artifacts. Writes are atomic:
// a reader never observes a partial file.
type FeedStore interface {
	WriteFeed(state *models.FeedState) error
	WriteTop(view *models.TopKView) error
	ReadFeed() (*models.FeedState, error)
	ReadTopRaw() ([]byte, error)
}

// SignalPublisher emits actionable signals after a successful cycle.
type SignalPublisher interface {
	PublishSignals(ctx context.Context, signals []models.SignalRecord) error
	Close() error
}

// PriceCache keeps the last good price per quote symbol across cycles.
type PriceCache interface {
	Fill(ctx context.Context, prices map[string]float64) error
	Snapshot(ctx context.Context) (map[string]float64, error)
}

// PriceTick is one live price update from a stream.
type PriceTick struct {
	Symbol string
	Price  float64
}

// PriceStream is a live market data connection that keeps the price cache
// warm between cycles.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan PriceTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records operational counters for the worker and panel.
type Metrics interface {
	RecordCycle(outcome string)
	RecordCycleDuration(seconds float64)
	RecordSignals(total, actionable int)
	RecordFetchLatency(source string, seconds float64)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
}
