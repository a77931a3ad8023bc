package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Wire values as the dashboard consumes them. The feed predates this service
// and its labels are Portuguese; they must not be translated.
const (
	SideLong    = "LONG"
	SideShort   = "SHORT"
	SideNoEntry = "NÃO ENTRAR"

	ZoneGreen  = "VERDE"
	ZoneYellow = "AMARELA"
	ZoneRed    = "VERMELHA"

	RiskLow    = "BAIXO"
	RiskMedium = "MÉDIO"
	RiskHigh   = "ALTO"

	PriorityHigh   = "ALTA"
	PriorityMedium = "MÉDIA"
	PriorityLow    = "BAIXA"

	// Placeholder shown for classification fields on synthesized rows.
	Placeholder = "—"
)

// StudyEntry is one row of the historical percentile study for a pair.
type StudyEntry struct {
	Pair          string
	Side          string // LONG or SHORT
	Percentile    float64
	TargetMovePct float64
}

// Score ranks study entries of the same pair: the expected move weighted by
// the percentile confidence.
func (e StudyEntry) Score() float64 {
	return e.TargetMovePct * (e.Percentile / 100.0)
}

// OptFloat is a number that marshals as "" when absent. The feed represents
// target and gain of a NO_ENTRY row as empty strings, not zeros or nulls.
type OptFloat struct {
	Value float64
	Valid bool
}

// Num returns a present OptFloat.
func Num(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}

func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte(`""`), nil
	}
	return []byte(strconv.FormatFloat(f.Value, 'f', -1, 64)), nil
}

func (f *OptFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = OptFloat{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == Placeholder || s == "-" {
			*f = OptFloat{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = OptFloat{}
			return nil
		}
		*f = Num(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("opt float: %w", err)
	}
	*f = Num(v)
	return nil
}

// SignalRecord is one feed row for a pair.
type SignalRecord struct {
	Pair          string   `json:"par"`
	Side          string   `json:"side"`
	Price         float64  `json:"preco"`
	Target        OptFloat `json:"alvo"`
	GainPct       OptFloat `json:"ganho_pct"`
	Assertiveness string   `json:"assertividade"`
	Score         string   `json:"score"`
	Zone          string   `json:"zona"`
	Risk          string   `json:"risco"`
	Priority      string   `json:"prioridade"`
	Date          string   `json:"data"`
	Time          string   `json:"hora"`
}

// IsActionable reports whether the row carries a real trade side.
func (r SignalRecord) IsActionable() bool {
	return r.Side == SideLong || r.Side == SideShort
}

// FeedState is the persisted aggregate the dashboard polls.
type FeedState struct {
	Positional   []SignalRecord `json:"posicional"`
	LastUpdated  string         `json:"ultima_atualizacao"`
	ServerNow    string         `json:"server_now"`
	AssertMin    float64        `json:"assert_min"`
	GainMin      float64        `json:"gain_min"`
	TotalCoins   int            `json:"total_moedas"`
	TotalSignals int            `json:"total_sinais"`
}

// TopKView is the ranked snapshot persisted next to the feed.
type TopKView struct {
	Now             string         `json:"agora_brt"`
	LastCalculation string         `json:"ultimo_calculo_brt"`
	UniverseTotal   int            `json:"total_universo"`
	SignalTotal     int            `json:"total_sinais_universo"`
	Shown           int            `json:"exibindo"`
	Top             []SignalRecord `json:"top10"`
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
