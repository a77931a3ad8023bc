package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"EntryFeed/internal/domain/models"
	"EntryFeed/internal/domain/repository"
	phttp "EntryFeed/pkg/http"
	"EntryFeed/pkg/logger"
	"EntryFeed/pkg/util"
)

// feedResponse is the panel document: the persisted state filled out to the
// configured universe, plus freshness markers the dashboard keys on.
type feedResponse struct {
	models.FeedState
	UniverseTotal int  `json:"total_universo"`
	Stale         bool `json:"stale"`
}

// FeedHandler serves the persisted feed artifacts to the dashboard. Reads go
// to disk first; the last good document is kept in memory so a write in
// flight or a transient read error never blanks the panel.
type FeedHandler struct {
	store    repository.FeedStore
	universe repository.UniverseSource
	loc      *time.Location
	log      *logger.Logger

	mu       sync.RWMutex
	lastFeed *models.FeedState
	lastTop  []byte
	started  time.Time
}

// NewFeedHandler creates the dashboard handler.
func NewFeedHandler(store repository.FeedStore, universe repository.UniverseSource, loc *time.Location, log *logger.Logger) *FeedHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &FeedHandler{store: store, universe: universe, loc: loc, log: log, started: time.Now()}
}

// RegisterRoutes registers the dashboard endpoints.
func (h *FeedHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/api/entrada", h.Feed)
	e.GET("/api/top10", h.Top)
}

// Health reports process liveness.
func (h *FeedHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// Feed serves the full positional feed. When the file on disk cannot be read
// the last good document is served with the stale flag raised.
func (h *FeedHandler) Feed(c echo.Context) error {
	stale := false
	state, err := h.store.ReadFeed()
	if err != nil {
		h.mu.RLock()
		state = h.lastFeed
		h.mu.RUnlock()
		if state == nil {
			return phttp.UnavailableResponse(c, "feed ainda não calculado")
		}
		stale = true
		h.log.Warn("serving stale feed", logger.Error(err))
	} else {
		h.mu.Lock()
		h.lastFeed = state
		h.mu.Unlock()
	}
	return phttp.JSONResponse(c, h.present(state, stale))
}

// present fills the document out to the configured universe so every tracked
// pair shows on the panel even when the worker has no row for it yet, and
// restamps server_now with the serve time.
func (h *FeedHandler) present(state *models.FeedState, stale bool) *feedResponse {
	resp := &feedResponse{FeedState: *state, Stale: stale}
	resp.ServerNow = util.FormatStamp(time.Now().In(h.loc))

	symbols, err := h.universe.Symbols()
	if err != nil {
		h.log.Warn("universe load failed, serving feed as-is", logger.Error(err))
		resp.UniverseTotal = len(resp.Positional)
		return resp
	}
	resp.UniverseTotal = len(symbols)

	known := make(map[string]struct{}, len(state.Positional))
	for _, rec := range state.Positional {
		known[rec.Pair] = struct{}{}
	}

	date, clock := util.SplitStamp(state.LastUpdated)
	rows := append([]models.SignalRecord(nil), state.Positional...)
	for _, sym := range symbols {
		if _, ok := known[sym]; ok {
			continue
		}
		rows = append(rows, models.SignalRecord{
			Pair:          sym,
			Side:          models.SideNoEntry,
			Target:        models.Num(0),
			GainPct:       models.Num(0),
			Assertiveness: models.Placeholder,
			Score:         models.Placeholder,
			Zone:          models.Placeholder,
			Risk:          models.Placeholder,
			Priority:      models.Placeholder,
			Date:          date,
			Time:          clock,
		})
	}
	resp.Positional = rows
	resp.TotalCoins = len(rows)
	return resp
}

// Top serves the ranked snapshot as written, without re-encoding.
func (h *FeedHandler) Top(c echo.Context) error {
	raw, err := h.store.ReadTopRaw()
	if err != nil {
		h.mu.RLock()
		stale := h.lastTop
		h.mu.RUnlock()
		if stale == nil {
			return phttp.UnavailableResponse(c, "ranking ainda não calculado")
		}
		h.log.Warn("serving stale top view", logger.Error(err))
		return phttp.RawJSONResponse(c, stale)
	}

	h.mu.Lock()
	h.lastTop = raw
	h.mu.Unlock()
	return phttp.RawJSONResponse(c, raw)
}
