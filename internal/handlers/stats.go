package handlers

import (
	"net/http"

	"catan-tracker/internal/tracker"
	"catan-tracker/internal/views"
)

const (
	defaultLeaderboardSize = 5
	defaultRecentWindow    = 10
)

type StatsHandler struct {
	tracker *tracker.Tracker
}

func NewStatsHandler(t *tracker.Tracker) *StatsHandler {
	return &StatsHandler{tracker: t}
}

// GetStats returns the full player stats table, sorted by the requested
// column.
// GET /api/stats?sort=wins&dir=desc
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	col := views.ColumnWins
	if parsed, ok := views.ParseColumn(r.URL.Query().Get("sort")); ok {
		col = parsed
	}
	desc := r.URL.Query().Get("dir") != "asc"

	state := h.tracker.State()
	respondJSON(w, http.StatusOK, views.Table(state.Stats, col, desc))
}

// GetLeaderboard returns the top players by one aggregate column.
// GET /api/stats/leaderboard?by=winPercentage&limit=5
func (h *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	col := views.ColumnWins
	if parsed, ok := views.ParseColumn(r.URL.Query().Get("by")); ok {
		col = parsed
	}
	limit := queryInt(r, "limit", defaultLeaderboardSize)
	if limit < 1 {
		limit = defaultLeaderboardSize
	}

	state := h.tracker.State()
	respondJSON(w, http.StatusOK, views.TopN(state.Stats, col, limit))
}

// GetRecentForm returns the stats table restricted to the n most recent
// games, best win percentage first.
// GET /api/stats/recent?games=10
func (h *StatsHandler) GetRecentForm(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "games", defaultRecentWindow)
	if n < 1 {
		n = defaultRecentWindow
	}

	state := h.tracker.State()
	agg := views.LastN(state.Games, n)
	respondJSON(w, http.StatusOK, views.Table(agg, views.ColumnWinPercentage, true))
}
