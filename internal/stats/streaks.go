package stats

import (
	"slices"
	"time"

	"catan-tracker/internal/models"
)

// StreakKind selects the membership predicate for the maximal-run scan.
type StreakKind string

const (
	WinStreak           StreakKind = "wins"
	ParticipationStreak StreakKind = "participation"
	SecondPlaceStreak   StreakKind = "second-places"
)

// ParseStreakKind maps a route segment onto a streak kind.
func ParseStreakKind(s string) (StreakKind, bool) {
	switch StreakKind(s) {
	case WinStreak, ParticipationStreak, SecondPlaceStreak:
		return StreakKind(s), true
	}
	return "", false
}

// StreakRecord is one player's record for a streak kind. LongestStreak is the
// player's longest maximal run, StreakCount the number of maximal runs longer
// than one game, and LastAchieved the most recent game of the run the field
// refers to.
type StreakRecord struct {
	Player        models.Player `json:"player"`
	LongestStreak int           `json:"longestStreak"`
	StreakCount   int           `json:"streakCount"`
	LastAchieved  time.Time     `json:"lastAchieved"`
}

// CurrentStreak is the active win streak at the top of the log.
type CurrentStreak struct {
	Player models.Player `json:"player"`
	Streak int           `json:"streak"`
}

// PerfectGameRecord is one player's perfect-game tally.
type PerfectGameRecord struct {
	Player models.Player `json:"player"`
	Count  int           `json:"perfectGames"`
	Last   time.Time     `json:"lastPerfectGame"`
}

// DominantEntry is one player's record within a dominant-period window.
type DominantEntry struct {
	Player      models.Player `json:"player"`
	Wins        int           `json:"wins"`
	WinRate     float64       `json:"winRate"`
	GamesPlayed int           `json:"gamesPlayed"`
}

// DominantPeriods are the window sizes shown on the dashboard.
var DominantPeriods = []int{10, 20, 30}

// sortedByDateDesc returns a copy of games sorted most recent first. Every
// streak computation scans this order; sorting a copy keeps the functions
// pure and tolerant of any input ordering.
func sortedByDateDesc(games []models.Game) []models.Game {
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
	return sorted
}

func runMembers(g models.Game, kind StreakKind) []models.Player {
	switch kind {
	case WinStreak:
		return []models.Player{g.Winner}
	case ParticipationStreak:
		return g.Players
	case SecondPlaceStreak:
		return g.SecondPlaces
	}
	return nil
}

func runHolds(g models.Game, kind StreakKind, p models.Player) bool {
	switch kind {
	case WinStreak:
		return g.Winner == p
	case ParticipationStreak:
		return g.HasPlayer(p)
	case SecondPlaceStreak:
		return g.HasSecondPlace(p)
	}
	return false
}

type runTally struct {
	longest    int
	count      int
	lastRunEnd time.Time // most recent game of the most recently found run
	hasLast    bool
}

// scanRuns walks the descending-ordered games once per maximal run. A run
// starts at index i when the predicate holds there but not at i-1; runs of a
// single game are ignored. best is the longest run across all players, ties
// going to the run found first in scan order (the most recent one).
func scanRuns(sorted []models.Game, kind StreakKind) (map[models.Player]*runTally, StreakRecord) {
	tallies := map[models.Player]*runTally{}
	var best StreakRecord

	for i, g := range sorted {
		for _, p := range runMembers(g, kind) {
			if i > 0 && runHolds(sorted[i-1], kind, p) {
				continue // inside a run already counted from its start
			}
			length := 1
			for j := i + 1; j < len(sorted) && runHolds(sorted[j], kind, p); j++ {
				length++
			}
			if length < 2 {
				continue
			}

			t := tallies[p]
			if t == nil {
				t = &runTally{}
				tallies[p] = t
			}
			t.count++
			if !t.hasLast {
				t.lastRunEnd = g.Date
				t.hasLast = true
			}
			if length > t.longest {
				t.longest = length
			}
			if length > best.LongestStreak {
				best = StreakRecord{Player: p, LongestStreak: length, LastAchieved: g.Date}
			}
		}
	}
	return tallies, best
}

// LongestStreaks returns every player's streak record for the given kind,
// longest first (ties in roster order). LastAchieved is the most recent game
// of the player's most recently found run.
func LongestStreaks(games []models.Game, kind StreakKind) []StreakRecord {
	tallies, _ := scanRuns(sortedByDateDesc(games), kind)

	records := make([]StreakRecord, 0, len(tallies))
	for p, t := range tallies {
		records = append(records, StreakRecord{
			Player:        p,
			LongestStreak: t.longest,
			StreakCount:   t.count,
			LastAchieved:  t.lastRunEnd,
		})
	}
	slices.SortStableFunc(records, func(a, b StreakRecord) int {
		if a.LongestStreak != b.LongestStreak {
			return b.LongestStreak - a.LongestStreak
		}
		return models.RosterIndex(a.Player) - models.RosterIndex(b.Player)
	})
	return records
}

// TopStreak returns the single best streak record across all players, with
// LastAchieved set to the most recent game of that run. ok is false when the
// log has no run longer than one game.
func TopStreak(games []models.Game, kind StreakKind) (StreakRecord, bool) {
	tallies, best := scanRuns(sortedByDateDesc(games), kind)
	if best.LongestStreak == 0 {
		return StreakRecord{}, false
	}
	best.StreakCount = tallies[best.Player].count
	return best, true
}

// CurrentWinStreak counts how many of the most recent games in a row share
// the most recent winner. ok is false for an empty log. Callers conventionally
// show the streak only when it is longer than one game.
func CurrentWinStreak(games []models.Game) (CurrentStreak, bool) {
	sorted := sortedByDateDesc(games)
	if len(sorted) == 0 {
		return CurrentStreak{}, false
	}
	winner := sorted[0].Winner
	streak := 0
	for _, g := range sorted {
		if g.Winner != winner {
			break
		}
		streak++
	}
	return CurrentStreak{Player: winner, Streak: streak}, true
}

// LatestPerfectGame returns the winner and date of the most recent game won
// without any second places. ok is false when the log has none.
func LatestPerfectGame(games []models.Game) (models.Player, time.Time, bool) {
	for _, g := range sortedByDateDesc(games) {
		if g.IsPerfect() {
			return g.Winner, g.Date, true
		}
	}
	return "", time.Time{}, false
}

// PerfectGames tallies perfect wins per player across the whole log, most
// first (ties in roster order). Last is the date of the player's most recent
// perfect game.
func PerfectGames(games []models.Game) []PerfectGameRecord {
	tallies := map[models.Player]*PerfectGameRecord{}
	for _, g := range sortedByDateDesc(games) {
		if !g.IsPerfect() {
			continue
		}
		r := tallies[g.Winner]
		if r == nil {
			r = &PerfectGameRecord{Player: g.Winner, Last: g.Date}
			tallies[g.Winner] = r
		}
		r.Count++
	}

	records := make([]PerfectGameRecord, 0, len(tallies))
	for _, r := range tallies {
		records = append(records, *r)
	}
	slices.SortStableFunc(records, func(a, b PerfectGameRecord) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return models.RosterIndex(a.Player) - models.RosterIndex(b.Player)
	})
	return records
}

// DominantPeriod ranks players by wins within the n most recent games. When
// fewer than n games exist the whole log is the window. Only players with at
// least one win in the window appear; ties rank in roster order. Win rates
// are relative to the games actually in the window.
func DominantPeriod(games []models.Game, n int) []DominantEntry {
	sorted := sortedByDateDesc(games)
	window := sorted
	if n < len(sorted) {
		window = sorted[:n]
	}
	if len(window) == 0 {
		return nil
	}

	wins := map[models.Player]int{}
	for _, g := range window {
		wins[g.Winner]++
	}

	entries := make([]DominantEntry, 0, len(wins))
	for p, w := range wins {
		played := 0
		for _, g := range window {
			if g.HasPlayer(p) {
				played++
			}
		}
		entries = append(entries, DominantEntry{
			Player:      p,
			Wins:        w,
			WinRate:     float64(w) / float64(len(window)) * 100,
			GamesPlayed: played,
		})
	}
	slices.SortStableFunc(entries, func(a, b DominantEntry) int {
		if a.Wins != b.Wins {
			return b.Wins - a.Wins
		}
		return models.RosterIndex(a.Player) - models.RosterIndex(b.Player)
	})
	return entries
}

// DominantLeader returns the top entry of the dominant-period window. ok is
// false for an empty log.
func DominantLeader(games []models.Game, n int) (DominantEntry, bool) {
	entries := DominantPeriod(games, n)
	if len(entries) == 0 {
		return DominantEntry{}, false
	}
	return entries[0], true
}
