package usecase

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"EntryFeed/internal/domain/models"
	"EntryFeed/pkg/util"
)

// ErrUniverseTooLarge aborts reconciliation when the universe file looks
// corrupted. The previously persisted state stays untouched.
var ErrUniverseTooLarge = errors.New("universe exceeds safety cap")

// topK is how many ranked signals the top view carries.
const topK = 10

// UniverseReconciler merges a computed signal batch with the canonical coin
// universe: every universe symbol gets exactly one row, missing prices are
// filled from the live map, and the aggregate totals and top-K ranking are
// recomputed.
type UniverseReconciler struct {
	maxSize     int
	quoteSuffix string
}

func NewUniverseReconciler(maxSize int, quoteSuffix string) *UniverseReconciler {
	return &UniverseReconciler{maxSize: maxSize, quoteSuffix: quoteSuffix}
}

// Reconcile builds the final feed state and top view. prior rows are reused
// where present; other universe symbols are synthesized as NO_ENTRY rows with
// display defaults. All rows are restamped with the calculation timestamp
// taken from prior.LastUpdated so one feed shares one logical time.
func (r *UniverseReconciler) Reconcile(prior *models.FeedState, universe []string, livePrices map[string]float64, now time.Time) (*models.FeedState, *models.TopKView, error) {
	if len(universe) > r.maxSize {
		return nil, nil, fmt.Errorf("%w: %d > %d", ErrUniverseTooLarge, len(universe), r.maxSize)
	}

	calcDate, calcClock := util.SplitStamp(prior.LastUpdated)

	var rows []models.SignalRecord
	if len(universe) == 0 {
		// No universe configured: keep the computed batch as-is.
		rows = append(rows, prior.Positional...)
	} else {
		byPair := make(map[string]models.SignalRecord, len(prior.Positional))
		for _, rec := range prior.Positional {
			byPair[rec.Pair] = rec
		}

		rows = make([]models.SignalRecord, 0, len(universe))
		for _, sym := range universe {
			rec, found := byPair[sym]
			if !found {
				rec = models.SignalRecord{Pair: sym, Side: models.SideNoEntry}
				rec.Target = models.Num(0)
				rec.GainPct = models.Num(0)
			}
			if rec.Side == "" {
				rec.Side = models.SideNoEntry
			}
			if rec.Price <= 0 {
				rec.Price = priceFor(livePrices, sym, r.quoteSuffix)
			}
			if rec.Zone == "" {
				rec.Zone = models.Placeholder
			}
			if rec.Risk == "" {
				rec.Risk = models.Placeholder
			}
			if rec.Priority == "" {
				rec.Priority = models.Placeholder
			}
			if calcDate != "" {
				rec.Date = calcDate
				rec.Time = calcClock
			}
			rows = append(rows, rec)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Pair < rows[j].Pair })
	}

	state := &models.FeedState{
		Positional:   rows,
		LastUpdated:  prior.LastUpdated,
		ServerNow:    prior.ServerNow,
		AssertMin:    prior.AssertMin,
		GainMin:      prior.GainMin,
		TotalCoins:   len(rows),
		TotalSignals: countSignals(rows),
	}

	return state, r.topView(state, now), nil
}

func (r *UniverseReconciler) topView(state *models.FeedState, now time.Time) *models.TopKView {
	valid := make([]models.SignalRecord, 0, len(state.Positional))
	for _, rec := range state.Positional {
		if !rec.IsActionable() {
			continue
		}
		if rec.Price <= 0 || !rec.Target.Valid || rec.Target.Value <= 0 {
			continue
		}
		if !rec.GainPct.Valid || rec.GainPct.Value <= 0 {
			continue
		}
		valid = append(valid, rec)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].GainPct.Value > valid[j].GainPct.Value
	})
	if len(valid) > topK {
		valid = valid[:topK]
	}

	return &models.TopKView{
		Now:             now.Format("2006-01-02 15:04:05"),
		LastCalculation: state.LastUpdated,
		UniverseTotal:   state.TotalCoins,
		SignalTotal:     state.TotalSignals,
		Shown:           len(valid),
		Top:             valid,
	}
}

// priceFor resolves a price for a bare coin symbol: quote pair first (the
// exchange map), bare symbol second (price-cache files).
func priceFor(prices map[string]float64, sym, suffix string) float64 {
	if v := prices[sym+suffix]; v > 0 {
		return v
	}
	return prices[sym]
}

func countSignals(rows []models.SignalRecord) int {
	n := 0
	for _, rec := range rows {
		if rec.IsActionable() {
			n++
		}
	}
	return n
}
