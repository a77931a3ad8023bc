package usecase

import (
	"testing"
	"time"

	"EntryFeed/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priorState(rows ...models.SignalRecord) *models.FeedState {
	return &models.FeedState{
		Positional:   rows,
		LastUpdated:  "2025-12-27 14:05",
		ServerNow:    "2025-12-27 14:05",
		AssertMin:    65,
		GainMin:      3,
		TotalCoins:   len(rows),
		TotalSignals: countSignals(rows),
	}
}

func longRow(pair string, price, target, gain float64) models.SignalRecord {
	return models.SignalRecord{
		Pair:     pair,
		Side:     models.SideLong,
		Price:    price,
		Target:   models.Num(target),
		GainPct:  models.Num(gain),
		Zone:     models.ZoneGreen,
		Risk:     models.RiskLow,
		Priority: models.PriorityMedium,
		Date:     "2025-12-27",
		Time:     "14:05",
	}
}

var testNow = time.Date(2025, 12, 27, 14, 7, 33, 0, time.UTC)

func TestReconcileSynthesizesMissingPairs(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	prior := priorState(longRow("BTC", 100, 106.5, 6.5))
	state, _, err := r.Reconcile(prior, []string{"BTC", "ETH"}, nil, testNow)
	require.NoError(t, err)

	require.Len(t, state.Positional, 2)
	assert.Equal(t, "BTC", state.Positional[0].Pair)

	eth := state.Positional[1]
	assert.Equal(t, "ETH", eth.Pair)
	assert.Equal(t, models.SideNoEntry, eth.Side)
	assert.True(t, eth.Target.Valid)
	assert.Equal(t, 0.0, eth.Target.Value)
	assert.Equal(t, models.Placeholder, eth.Zone)
	assert.Equal(t, models.Placeholder, eth.Risk)
	assert.Equal(t, models.Placeholder, eth.Priority)

	assert.Equal(t, 2, state.TotalCoins)
	assert.Equal(t, 1, state.TotalSignals)
}

func TestReconcileFillsPriceFromLiveMap(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	prior := priorState()
	live := map[string]float64{"ETHUSDT": 2000.5}
	state, _, err := r.Reconcile(prior, []string{"ETH"}, live, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2000.5, state.Positional[0].Price)
}

func TestReconcileStampsRowsFromLastUpdated(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	row := longRow("BTC", 100, 106.5, 6.5)
	row.Date = "2020-01-01"
	row.Time = "00:00"
	state, _, err := r.Reconcile(priorState(row), []string{"BTC", "ETH"}, nil, testNow)
	require.NoError(t, err)

	for _, rec := range state.Positional {
		assert.Equal(t, "2025-12-27", rec.Date, "all rows share the calculation stamp")
		assert.Equal(t, "14:05", rec.Time)
	}
}

func TestReconcileSortsByPair(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	state, _, err := r.Reconcile(priorState(), []string{"SOL", "ADA", "BTC"}, nil, testNow)
	require.NoError(t, err)

	pairs := make([]string, 0, 3)
	for _, rec := range state.Positional {
		pairs = append(pairs, rec.Pair)
	}
	assert.Equal(t, []string{"ADA", "BTC", "SOL"}, pairs)
}

func TestReconcileIdempotent(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")
	universe := []string{"BTC", "ETH"}

	prior := priorState(longRow("BTC", 100, 106.5, 6.5))
	first, _, err := r.Reconcile(prior, universe, nil, testNow)
	require.NoError(t, err)

	second, _, err := r.Reconcile(first, universe, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, first.TotalCoins, second.TotalCoins)
	assert.Equal(t, first.TotalSignals, second.TotalSignals)
	assert.Equal(t, first.Positional, second.Positional)
}

func TestReconcileUniverseCapAborts(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	universe := make([]string, 250)
	for i := range universe {
		universe[i] = "C" + string(rune('A'+i%26)) + string(rune('A'+i/26))
	}
	_, _, err := r.Reconcile(priorState(), universe, nil, testNow)
	require.ErrorIs(t, err, ErrUniverseTooLarge)
}

func TestReconcileEmptyUniverseKeepsBatch(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	prior := priorState(longRow("BTC", 100, 106.5, 6.5))
	state, _, err := r.Reconcile(prior, nil, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, prior.Positional, state.Positional)
}

func TestTopViewRankingAndCap(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	rows := make([]models.SignalRecord, 0, 14)
	universe := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		pair := string(rune('A'+i)) + "AA"
		rows = append(rows, longRow(pair, 100, 110, float64(i+1)))
		universe = append(universe, pair)
	}
	_, top, err := r.Reconcile(priorState(rows...), universe, nil, testNow)
	require.NoError(t, err)

	require.Equal(t, 10, top.Shown)
	require.Len(t, top.Top, 10)
	for i := 1; i < len(top.Top); i++ {
		assert.GreaterOrEqual(t, top.Top[i-1].GainPct.Value, top.Top[i].GainPct.Value)
	}
	assert.Equal(t, 14.0, top.Top[0].GainPct.Value)
	assert.Equal(t, "2025-12-27 14:05", top.LastCalculation)
	assert.Equal(t, "2025-12-27 14:07:33", top.Now)
	assert.Equal(t, 14, top.UniverseTotal)
	assert.Equal(t, 14, top.SignalTotal)
}

func TestTopViewFiltersInvalidRows(t *testing.T) {
	r := NewUniverseReconciler(200, "USDT")

	noEntry := models.SignalRecord{Pair: "AAA", Side: models.SideNoEntry}
	noPrice := longRow("BBB", 0, 110, 5)
	noTarget := longRow("CCC", 100, 0, 5)
	good := longRow("DDD", 100, 110, 5)

	_, top, err := r.Reconcile(priorState(noEntry, noPrice, noTarget, good), []string{"AAA", "BBB", "CCC", "DDD"}, nil, testNow)
	require.NoError(t, err)

	require.Equal(t, 1, top.Shown)
	assert.Equal(t, "DDD", top.Top[0].Pair)
}
