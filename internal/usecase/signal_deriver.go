package usecase

import (

	"EntryFeed/internal/domain/models"
)

// Policy selects which generation of the entry rules the deriver applies.
// The two rule sets coexisted in production; neither supersedes the other,
// so the choice is an explicit configuration value.
type Policy string

const (
	// PolicyPercentile gates on the study percentile and takes the study's
	// expected move as the gain estimate.
	PolicyPercentile Policy = "percentile"
	// PolicyDualSide computes LONG and SHORT gains from price deltas and
	// keeps the better side, discarding pairs below a fixed 3% floor.
	PolicyDualSide Policy = "dualside"
)

// dualSidePercentile is the percentile row the dual-side policy reads, and
// dualSideGainFloor the minimum winning gain it accepts.
const (
	dualSidePercentile = 60
	dualSideGainFloor  = 3.0
)

// SignalDeriver turns the study rows of a pair plus its current price into
// one feed record. It is total over its inputs: bad values become zeros and
// the pair resolves to NO_ENTRY (or is discarded, dual-side policy only),
// never an error.
type SignalDeriver struct {
	policy    Policy
	assertMin float64
	gainMin   float64
}

func NewSignalDeriver(policy Policy, assertMin, gainMin float64) *SignalDeriver {
	return &SignalDeriver{policy: policy, assertMin: assertMin, gainMin: gainMin}
}

// Derive produces the feed record for pair. The ok result is false only when
// the dual-side policy discards the pair entirely; the percentile policy
// always emits a row. date and clock are the cycle stamp shared by all rows.
func (d *SignalDeriver) Derive(pair string, entries []models.StudyEntry, price float64, date, clock string) (models.SignalRecord, bool) {
	if d.policy == PolicyDualSide {
		return d.deriveDualSide(pair, entries, price, date, clock)
	}
	return d.derivePercentile(pair, entries, price, date, clock), true
}

func (d *SignalDeriver) derivePercentile(pair string, entries []models.StudyEntry, price float64, date, clock string) models.SignalRecord {
	var chosen models.StudyEntry
	for i, e := range entries {
		if i == 0 || e.Score() > chosen.Score() {
			chosen = e
		}
	}

	rec := models.SignalRecord{
		Pair: pair,
		Side: models.SideNoEntry,
		Date: date,
		Time: clock,
	}
	if price > 0 {
		rec.Price = models.Round(price, 3)
	}

	percentile := chosen.Percentile
	movePct := chosen.TargetMovePct

	// Classification is derived even for NO_ENTRY rows so the panel can
	// show why a pair was rejected.
	rec.Zone, rec.Risk = zoneRiskFromPercentile(percentile)
	rec.Priority = priorityFromMove(movePct, rec.Zone)

	if percentile < d.assertMin || movePct < d.gainMin || price <= 0 {
		return rec
	}
	if chosen.Side != models.SideLong && chosen.Side != models.SideShort {
		return rec
	}

	rec.Side = chosen.Side
	if rec.Side == models.SideLong {
		rec.Target = models.Num(models.Round(price*(1+movePct/100), 3))
	} else {
		rec.Target = models.Num(models.Round(price*(1-movePct/100), 3))
	}
	rec.GainPct = models.Num(models.Round(movePct, 2))
	return rec
}

func (d *SignalDeriver) deriveDualSide(pair string, entries []models.StudyEntry, price float64, date, clock string) (models.SignalRecord, bool) {
	if price <= 0 || len(entries) == 0 {
		return models.SignalRecord{}, false
	}

	var longPct, shortPct float64
	for _, e := range entries {
		if e.Percentile != dualSidePercentile {
			continue
		}
		switch e.Side {
		case models.SideLong:
			longPct = e.TargetMovePct
		case models.SideShort:
			shortPct = e.TargetMovePct
		}
	}

	var longTarget, shortTarget float64
	if longPct > 0 {
		longTarget = price * (1 + longPct/100)
	}
	if shortPct > 0 {
		shortTarget = price * (1 - shortPct/100)
	}

	gainLong := deltaGain(price, longTarget, models.SideLong)
	gainShort := deltaGain(price, shortTarget, models.SideShort)
	if gainLong <= 0 && gainShort <= 0 {
		return models.SignalRecord{}, false
	}

	side, target, gain := models.SideLong, longTarget, gainLong
	if gainShort > gainLong {
		side, target, gain = models.SideShort, shortTarget, gainShort
	}
	if gain < dualSideGainFloor {
		return models.SignalRecord{}, false
	}

	zone, risk := zoneRiskFromGain(gain)
	return models.SignalRecord{
		Pair:     pair,
		Side:     side,
		Price:    price,
		Target:   models.Num(target),
		GainPct:  models.Num(models.Round(gain, 2)),
		Zone:     zone,
		Risk:     risk,
		Priority: priorityFromGain(gain),
		Date:     date,
		Time:     clock,
	}, true
}

// deltaGain is the positive percentage gain of reaching target from price on
// the given side.
func deltaGain(price, target float64, side string) float64 {
	if price <= 0 || target <= 0 {
		return 0
	}
	switch side {
	case models.SideLong:
		return max(0, (target-price)/price*100)
	case models.SideShort:
		return max(0, (price-target)/price*100)
	}
	return 0
}

func zoneRiskFromPercentile(p float64) (string, string) {
	switch {
	case p >= 70:
		return models.ZoneGreen, models.RiskLow
	case p >= 50:
		return models.ZoneYellow, models.RiskMedium
	default:
		return models.ZoneRed, models.RiskHigh
	}
}

func priorityFromMove(movePct float64, zone string) string {
	switch {
	case zone == models.ZoneGreen && movePct >= 10:
		return models.PriorityHigh
	case movePct >= 5:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func zoneRiskFromGain(gain float64) (string, string) {
	switch {
	case gain >= 6:
		return models.ZoneGreen, models.RiskLow
	case gain >= 3:
		return models.ZoneYellow, models.RiskMedium
	default:
		return models.ZoneRed, models.RiskHigh
	}
}

func priorityFromGain(gain float64) string {
	switch {
	case gain >= 8:
		return models.PriorityHigh
	case gain >= 5:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
