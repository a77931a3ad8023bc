package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"EntryFeed/internal/domain/models"
	drepo "EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/logger"
	"EntryFeed/pkg/util"
)

// ErrEmptyFeed aborts the cycle before anything is written: an empty row set
// must never replace the last good feed.
var ErrEmptyFeed = errors.New("no rows to write")

// CycleRunner executes one full calculation cycle: studies and prices in,
// derived and reconciled feed out. Any error leaves the persisted files
// exactly as they were.
type CycleRunner struct {
	studies  drepo.StudySource
	universe drepo.UniverseSource
	prices   drepo.PriceSource
	cache    drepo.PriceCache
	store    drepo.FeedStore
	pub      drepo.SignalPublisher // optional
	metrics  drepo.Metrics
	deriver  *SignalDeriver
	rec      *UniverseReconciler

	quoteSuffix string
	assertMin   float64
	gainMin     float64
	loc         *time.Location
	log         *logger.Logger
}

type CycleRunnerParams struct {
	Studies     drepo.StudySource
	Universe    drepo.UniverseSource
	Prices      drepo.PriceSource
	Cache       drepo.PriceCache
	Store       drepo.FeedStore
	Publisher   drepo.SignalPublisher
	Metrics     drepo.Metrics
	Deriver     *SignalDeriver
	Reconciler  *UniverseReconciler
	QuoteSuffix string
	AssertMin   float64
	GainMin     float64
	Location    *time.Location
	Logger      *logger.Logger
}

func NewCycleRunner(p CycleRunnerParams) *CycleRunner {
	log := p.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	return &CycleRunner{
		studies:     p.Studies,
		universe:    p.Universe,
		prices:      p.Prices,
		cache:       p.Cache,
		store:       p.Store,
		pub:         p.Publisher,
		metrics:     p.Metrics,
		deriver:     p.Deriver,
		rec:         p.Reconciler,
		quoteSuffix: p.QuoteSuffix,
		assertMin:   p.AssertMin,
		gainMin:     p.GainMin,
		loc:         loc,
		log:         log,
	}
}

// RunCycle computes and persists one feed generation. It returns an error
// when the cycle was aborted; the caller decides whether to keep looping.
func (c *CycleRunner) RunCycle(ctx context.Context) error {
	started := time.Now()
	now := started.In(c.loc)
	stamp := util.FormatStamp(now)
	date, clock := util.SplitStamp(stamp)

	entries, err := c.studies.Load(ctx)
	if err != nil {
		c.metrics.RecordError("studies")
		c.metrics.RecordCycle("failed")
		return err
	}

	prices := c.fetchPrices(ctx)

	batch := c.deriveBatch(entries, prices, date, clock)
	batch.LastUpdated = stamp
	batch.ServerNow = stamp
	if len(batch.Positional) == 0 {
		c.metrics.RecordCycle("failed")
		return ErrEmptyFeed
	}

	symbols := c.universeSymbols()

	state, top, err := c.rec.Reconcile(batch, symbols, prices, now)
	if err != nil {
		c.metrics.RecordError("reconcile")
		c.metrics.RecordCycle("failed")
		return err
	}

	if err := c.store.WriteFeed(state); err != nil {
		c.metrics.RecordError("persist")
		c.metrics.RecordCycle("failed")
		return err
	}
	if err := c.store.WriteTop(top); err != nil {
		c.metrics.RecordError("persist")
		c.metrics.RecordCycle("failed")
		return err
	}

	c.publish(ctx, state)

	for _, rec := range state.Positional {
		if rec.IsActionable() && rec.Price > 0 {
			c.metrics.RecordLastPrice(rec.Pair, rec.Price)
		}
	}
	c.metrics.RecordSignals(state.TotalCoins, state.TotalSignals)
	c.metrics.RecordCycleDuration(time.Since(started).Seconds())
	c.metrics.RecordCycle("ok")

	c.log.Info("cycle complete",
		logger.String("updated", state.LastUpdated),
		logger.Int("coins", state.TotalCoins),
		logger.Int("signals", state.TotalSignals),
		logger.Int("top", top.Shown),
	)
	return nil
}

// deriveBatch runs the deriver over the study table, one record per pair.
func (c *CycleRunner) deriveBatch(entries []models.StudyEntry, prices map[string]float64, date, clock string) *models.FeedState {
	byPair := make(map[string][]models.StudyEntry)
	order := make([]string, 0)
	for _, e := range entries {
		if _, seen := byPair[e.Pair]; !seen {
			order = append(order, e.Pair)
		}
		byPair[e.Pair] = append(byPair[e.Pair], e)
	}
	sort.Strings(order)

	rows := make([]models.SignalRecord, 0, len(order))
	for _, pair := range order {
		price := priceFor(prices, pair, c.quoteSuffix)
		rec, ok := c.deriver.Derive(pair, byPair[pair], price, date, clock)
		if ok {
			rows = append(rows, rec)
		}
	}

	return &models.FeedState{
		Positional:   rows,
		AssertMin:    c.assertMin,
		GainMin:      c.gainMin,
		TotalCoins:   len(rows),
		TotalSignals: countSignals(rows),
	}
}

// fetchPrices pulls the bulk price map, falling back to the last good cache
// snapshot when the source is unavailable. A total miss yields an empty map,
// which downstream resolves to NO_ENTRY rows.
func (c *CycleRunner) fetchPrices(ctx context.Context) map[string]float64 {
	started := time.Now()
	prices, err := c.prices.Prices(ctx)
	if err != nil {
		c.metrics.RecordError("prices")
		c.log.Warn("price fetch failed, using cached prices", logger.Error(err))
		cached, cerr := c.cache.Snapshot(ctx)
		if cerr != nil || cached == nil {
			return map[string]float64{}
		}
		return cached
	}
	c.metrics.RecordFetchLatency("bulk", time.Since(started).Seconds())

	if len(prices) > 0 {
		if err := c.cache.Fill(ctx, prices); err != nil {
			c.log.Warn("price cache fill failed", logger.Error(err))
		}
	}
	return prices
}

func (c *CycleRunner) universeSymbols() []string {
	symbols, err := c.universe.Symbols()
	if err != nil {
		c.metrics.RecordError("universe")
		c.log.Warn("universe load failed, reconciling without it", logger.Error(err))
		return nil
	}
	return symbols
}

func (c *CycleRunner) publish(ctx context.Context, state *models.FeedState) {
	if c.pub == nil {
		return
	}
	actionable := make([]models.SignalRecord, 0, state.TotalSignals)
	for _, rec := range state.Positional {
		if rec.IsActionable() {
			actionable = append(actionable, rec)
		}
	}
	if len(actionable) == 0 {
		return
	}
	if err := c.pub.PublishSignals(ctx, actionable); err != nil {
		c.metrics.RecordError("publish")
		c.log.Warn("signal publish failed", logger.Error(err))
	}
}
