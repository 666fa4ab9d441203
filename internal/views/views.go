// Package views holds the read-only projections the dashboard renders:
// sortable stat tables, top-N leaderboards, pagination windows and the
// last-N-games form table. Projections never mutate their inputs.
package views

import (
	"slices"

	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
)

// Column selects the aggregate field a table sort or leaderboard is keyed on.
type Column string

const (
	ColumnName                  Column = "name"
	ColumnWins                  Column = "wins"
	ColumnSecondPlace           Column = "secondPlace"
	ColumnParticipations        Column = "participations"
	ColumnWinPercentage         Column = "winPercentage"
	ColumnSecondPlacePercentage Column = "secondPlacePercentage"
)

// ParseColumn maps a query parameter onto a column.
func ParseColumn(s string) (Column, bool) {
	switch Column(s) {
	case ColumnName, ColumnWins, ColumnSecondPlace, ColumnParticipations,
		ColumnWinPercentage, ColumnSecondPlacePercentage:
		return Column(s), true
	}
	return "", false
}

// Row is one line of the player stats table.
type Row struct {
	Player                models.Player `json:"player"`
	Participations        int           `json:"participations"`
	Wins                  int           `json:"wins"`
	SecondPlace           int           `json:"secondPlace"`
	WinPercentage         float64       `json:"winPercentage"`
	SecondPlacePercentage float64       `json:"secondPlacePercentage"`
}

func (r Row) value(col Column) float64 {
	switch col {
	case ColumnWins:
		return float64(r.Wins)
	case ColumnSecondPlace:
		return float64(r.SecondPlace)
	case ColumnParticipations:
		return float64(r.Participations)
	case ColumnWinPercentage:
		return r.WinPercentage
	case ColumnSecondPlacePercentage:
		return r.SecondPlacePercentage
	}
	return 0
}

// Table flattens an aggregate into rows sorted by the given column. Rows
// enter in roster order and the sort is stable, so equal values keep a
// deterministic order.
func Table(agg stats.Aggregate, col Column, desc bool) []Row {
	rows := make([]Row, 0, len(agg))
	for _, p := range models.Roster() {
		st, ok := agg[p]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Player:                p,
			Participations:        st.Participations,
			Wins:                  st.Wins,
			SecondPlace:           st.SecondPlace,
			WinPercentage:         st.WinPercentage(),
			SecondPlacePercentage: st.SecondPlacePercentage(),
		})
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		var cmp int
		if col == ColumnName {
			cmp = models.RosterIndex(a.Player) - models.RosterIndex(b.Player)
		} else {
			av, bv := a.value(col), b.value(col)
			switch {
			case av < bv:
				cmp = -1
			case av > bv:
				cmp = 1
			}
		}
		if desc {
			cmp = -cmp
		}
		return cmp
	})
	return rows
}

// LeaderboardEntry is one rank line of a top-N leaderboard.
type LeaderboardEntry struct {
	Rank   int           `json:"rank"`
	Player models.Player `json:"player"`
	Value  float64       `json:"value"`
}

// TopN returns the n best players by the given column, best first. Fewer
// entries come back when fewer players have stats.
func TopN(agg stats.Aggregate, col Column, n int) []LeaderboardEntry {
	rows := Table(agg, col, true)
	if n < len(rows) {
		rows = rows[:n]
	}
	entries := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = LeaderboardEntry{Rank: i + 1, Player: r.Player, Value: r.value(col)}
	}
	return entries
}

// Page is a fixed-size window over the recent-games list.
type Page struct {
	Games      []models.Game `json:"games"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalGames int           `json:"totalGames"`
	TotalPages int           `json:"totalPages"`
}

// Paginate slices games (already most recent first) into the requested
// 1-based page. A page past the end is empty, not an error.
func Paginate(games []models.Game, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(games)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	window := make([]models.Game, end-start)
	copy(window, games[start:end])

	return Page{
		Games:      window,
		Page:       page,
		PageSize:   pageSize,
		TotalGames: total,
		TotalPages: totalPages,
	}
}

// LastN restricts the aggregate to the n most recently dated games. The whole
// log is used when it holds fewer than n games.
func LastN(games []models.Game, n int) stats.Aggregate {
	sorted := make([]models.Game, len(games))
	copy(sorted, games)
	slices.SortStableFunc(sorted, func(a, b models.Game) int {
		if a.Date.After(b.Date) {
			return -1
		}
		if a.Date.Before(b.Date) {
			return 1
		}
		return 0
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return stats.Compute(sorted)
}
