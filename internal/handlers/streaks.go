package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
	"catan-tracker/internal/tracker"
)

type StreaksHandler struct {
	tracker *tracker.Tracker
}

func NewStreaksHandler(t *tracker.Tracker) *StreaksHandler {
	return &StreaksHandler{tracker: t}
}

// PerfectGameSummary is the most recent perfect game's card.
type PerfectGameSummary struct {
	Player models.Player `json:"player"`
	Date   time.Time     `json:"date"`
}

// DominantPeriodSummary is the leader of one dominant-period window.
type DominantPeriodSummary struct {
	Period int           `json:"period"`
	Player models.Player `json:"player"`
	Wins   int           `json:"wins"`
}

// StreaksSummary is the dashboard card payload. A current streak of a single
// game is not reported.
type StreaksSummary struct {
	CurrentStreak       *stats.CurrentStreak    `json:"currentStreak,omitempty"`
	LongestWinStreak    *stats.StreakRecord     `json:"longestWinStreak,omitempty"`
	LongestPlayedStreak *stats.StreakRecord     `json:"longestPlayedStreak,omitempty"`
	LongestSecondStreak *stats.StreakRecord     `json:"longestSecondStreak,omitempty"`
	PerfectGame         *PerfectGameSummary     `json:"perfectGame,omitempty"`
	DominantPeriods     []DominantPeriodSummary `json:"dominantPeriods"`
}

// BuildSummary computes the card payload from a game log.
func BuildSummary(games []models.Game) StreaksSummary {
	summary := StreaksSummary{
		DominantPeriods: []DominantPeriodSummary{},
	}

	if current, ok := stats.CurrentWinStreak(games); ok && current.Streak > 1 {
		summary.CurrentStreak = &current
	}
	if record, ok := stats.TopStreak(games, stats.WinStreak); ok {
		summary.LongestWinStreak = &record
	}
	if record, ok := stats.TopStreak(games, stats.ParticipationStreak); ok {
		summary.LongestPlayedStreak = &record
	}
	if record, ok := stats.TopStreak(games, stats.SecondPlaceStreak); ok {
		summary.LongestSecondStreak = &record
	}
	if player, date, ok := stats.LatestPerfectGame(games); ok {
		summary.PerfectGame = &PerfectGameSummary{Player: player, Date: date}
	}
	for _, period := range stats.DominantPeriods {
		if leader, ok := stats.DominantLeader(games, period); ok {
			summary.DominantPeriods = append(summary.DominantPeriods, DominantPeriodSummary{
				Period: period,
				Player: leader.Player,
				Wins:   leader.Wins,
			})
		}
	}
	return summary
}

// GetSummary returns the streak cards for the dashboard.
// GET /api/streaks
func (h *StreaksHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	state := h.tracker.State()
	respondJSON(w, http.StatusOK, BuildSummary(state.Games))
}

// GetDetail returns the per-player detail table for one streak kind.
// GET /api/streaks/{kind}, kind in {wins, participation, second-places,
// perfect-games}
func (h *StreaksHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	kindParam := mux.Vars(r)["kind"]
	state := h.tracker.State()

	if kindParam == "perfect-games" {
		respondJSON(w, http.StatusOK, stats.PerfectGames(state.Games))
		return
	}

	kind, ok := stats.ParseStreakKind(kindParam)
	if !ok {
		http.Error(w, "Unknown streak kind", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, stats.LongestStreaks(state.Games, kind))
}

// GetDominantPeriod returns the win ranking within the N most recent games.
// GET /api/streaks/dominant?period=10
func (h *StreaksHandler) GetDominantPeriod(w http.ResponseWriter, r *http.Request) {
	period := queryInt(r, "period", stats.DominantPeriods[0])
	if period < 1 {
		period = stats.DominantPeriods[0]
	}

	state := h.tracker.State()
	respondJSON(w, http.StatusOK, stats.DominantPeriod(state.Games, period))
}
