package usecase

import (
	"testing"

	"EntryFeed/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func study(pair, side string, percentile, movePct float64) models.StudyEntry {
	return models.StudyEntry{Pair: pair, Side: side, Percentile: percentile, TargetMovePct: movePct}
}

func TestDerivePercentileLongEntry(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	rec, ok := d.Derive("BTC", []models.StudyEntry{study("BTC", models.SideLong, 72, 6.5)}, 100, "2025-12-27", "14:05")
	require.True(t, ok)

	assert.Equal(t, models.SideLong, rec.Side)
	assert.Equal(t, 100.0, rec.Price)
	require.True(t, rec.Target.Valid)
	assert.Equal(t, 106.5, rec.Target.Value)
	require.True(t, rec.GainPct.Valid)
	assert.Equal(t, 6.5, rec.GainPct.Value)
	assert.Equal(t, models.ZoneGreen, rec.Zone)
	assert.Equal(t, models.RiskLow, rec.Risk)
	assert.Equal(t, models.PriorityMedium, rec.Priority, "move below 10 stays medium")
	assert.Equal(t, "2025-12-27", rec.Date)
	assert.Equal(t, "14:05", rec.Time)
}

func TestDerivePercentileShortTarget(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	rec, _ := d.Derive("ETH", []models.StudyEntry{study("ETH", models.SideShort, 80, 4)}, 200, "", "")
	assert.Equal(t, models.SideShort, rec.Side)
	assert.Equal(t, 192.0, rec.Target.Value)
}

func TestDerivePercentileGateFailsLowPercentile(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	rec, ok := d.Derive("BTC", []models.StudyEntry{study("BTC", models.SideLong, 40, 6.5)}, 100, "", "")
	require.True(t, ok, "percentile policy always emits a row")

	assert.Equal(t, models.SideNoEntry, rec.Side)
	assert.False(t, rec.Target.Valid)
	assert.False(t, rec.GainPct.Valid)
	// Classification still computed for display.
	assert.Equal(t, models.ZoneRed, rec.Zone)
	assert.Equal(t, models.RiskHigh, rec.Risk)
	assert.Equal(t, models.PriorityMedium, rec.Priority)
}

func TestDerivePercentileGateFailsLowMove(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	rec, _ := d.Derive("BTC", []models.StudyEntry{study("BTC", models.SideLong, 72, 2)}, 100, "", "")
	assert.Equal(t, models.SideNoEntry, rec.Side)
	assert.False(t, rec.Target.Valid)
}

func TestDeriveZeroPriceIsNoEntry(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	for _, price := range []float64{0, -1} {
		rec, _ := d.Derive("BTC", []models.StudyEntry{study("BTC", models.SideLong, 72, 6.5)}, price, "", "")
		assert.Equal(t, models.SideNoEntry, rec.Side)
		assert.Equal(t, 0.0, rec.Price)
		assert.False(t, rec.Target.Valid)
		assert.False(t, rec.GainPct.Valid)
	}
}

func TestDerivePercentileUnknownSide(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	rec, _ := d.Derive("BTC", []models.StudyEntry{study("BTC", "BOTH", 72, 6.5)}, 100, "", "")
	assert.Equal(t, models.SideNoEntry, rec.Side)
	assert.False(t, rec.Target.Valid)
}

func TestDeriveNoStudyEntries(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)

	rec, ok := d.Derive("XRP", nil, 0.5, "", "")
	require.True(t, ok)
	assert.Equal(t, models.SideNoEntry, rec.Side)
}

func TestDerivePicksHighestScoreEntry(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 50, 3)

	// Score: 6.5*0.72=4.68 vs 9*0.55=4.95, the second wins.
	entries := []models.StudyEntry{
		study("BTC", models.SideLong, 72, 6.5),
		study("BTC", models.SideShort, 55, 9),
	}
	rec, _ := d.Derive("BTC", entries, 100, "", "")
	assert.Equal(t, models.SideShort, rec.Side)
	assert.Equal(t, 9.0, rec.GainPct.Value)
}

func TestDerivePriorityHighNeedsGreenZone(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 50, 3)

	rec, _ := d.Derive("BTC", []models.StudyEntry{study("BTC", models.SideLong, 75, 12)}, 100, "", "")
	assert.Equal(t, models.PriorityHigh, rec.Priority)

	rec, _ = d.Derive("BTC", []models.StudyEntry{study("BTC", models.SideLong, 60, 12)}, 100, "", "")
	assert.Equal(t, models.PriorityMedium, rec.Priority, "yellow zone caps priority")
}

func TestDeriveTieKeepsFirstEntry(t *testing.T) {
	d := NewSignalDeriver(PolicyPercentile, 65, 3)
	entries := []models.StudyEntry{
		study("BTC", models.SideLong, 70, 5),
		study("BTC", models.SideShort, 70, 5), // equal score, first kept
	}
	rec, ok := d.Derive("BTC", entries, 100, "2026-08-28", "12:00")
	require.True(t, ok)
	assert.Equal(t, models.SideLong, rec.Side)
}

func TestDeriveDualSidePicksBetterSide(t *testing.T) {
	d := NewSignalDeriver(PolicyDualSide, 65, 3)

	entries := []models.StudyEntry{
		study("SOL", models.SideLong, 60, 4),
		study("SOL", models.SideShort, 60, 7),
		study("SOL", models.SideLong, 70, 20), // other percentile rows ignored
	}
	rec, ok := d.Derive("SOL", entries, 100, "2025-12-27", "14:05")
	require.True(t, ok)

	assert.Equal(t, models.SideShort, rec.Side)
	assert.InDelta(t, 93.0, rec.Target.Value, 1e-9)
	assert.Equal(t, 7.0, rec.GainPct.Value)
	assert.Equal(t, models.ZoneGreen, rec.Zone)
	assert.Equal(t, models.RiskLow, rec.Risk)
	assert.Equal(t, models.PriorityMedium, rec.Priority)
}

func TestDeriveDualSideDiscardsBelowFloor(t *testing.T) {
	d := NewSignalDeriver(PolicyDualSide, 65, 3)

	_, ok := d.Derive("ADA", []models.StudyEntry{study("ADA", models.SideLong, 60, 2)}, 100, "", "")
	assert.False(t, ok, "winning gain below the floor is discarded")
}

func TestDeriveDualSideNoPriceDiscards(t *testing.T) {
	d := NewSignalDeriver(PolicyDualSide, 65, 3)

	_, ok := d.Derive("ADA", []models.StudyEntry{study("ADA", models.SideLong, 60, 5)}, 0, "", "")
	assert.False(t, ok)
}

func TestDeriveDualSideGainBasedClassification(t *testing.T) {
	d := NewSignalDeriver(PolicyDualSide, 65, 3)

	rec, ok := d.Derive("BNB", []models.StudyEntry{study("BNB", models.SideLong, 60, 9)}, 50, "", "")
	require.True(t, ok)
	assert.Equal(t, models.ZoneGreen, rec.Zone)
	assert.Equal(t, models.PriorityHigh, rec.Priority)

	rec, ok = d.Derive("BNB", []models.StudyEntry{study("BNB", models.SideLong, 60, 4)}, 50, "", "")
	require.True(t, ok)
	assert.Equal(t, models.ZoneYellow, rec.Zone)
	assert.Equal(t, models.RiskMedium, rec.Risk)
	assert.Equal(t, models.PriorityLow, rec.Priority)
}
