package stats

import "catan-tracker/internal/models"

// PlayerStats is the per-player tally over a sequence of games.
type PlayerStats struct {
	Participations int `json:"participations" bson:"totalGames"`
	Wins           int `json:"wins" bson:"totalWins"`
	SecondPlace    int `json:"secondPlace" bson:"totalSecondPlace"`
}

// WinPercentage is wins over participations, as a percentage. A player with
// no participations has a win percentage of 0, never NaN.
func (s PlayerStats) WinPercentage() float64 {
	if s.Participations == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Participations) * 100
}

// SecondPlacePercentage is second-place finishes over participations, as a
// percentage. 0 when the player has no participations.
func (s PlayerStats) SecondPlacePercentage() float64 {
	if s.Participations == 0 {
		return 0
	}
	return float64(s.SecondPlace) / float64(s.Participations) * 100
}

// Aggregate maps every player appearing in at least one game to their tally.
type Aggregate map[models.Player]PlayerStats

// Compute tallies participations, wins and second places in a single pass.
// The result does not depend on the order of games, so callers may pass any
// slice of the log.
func Compute(games []models.Game) Aggregate {
	agg := Aggregate{}
	for _, g := range games {
		for _, p := range g.Players {
			st := agg[p]
			st.Participations++
			if p == g.Winner {
				st.Wins++
			}
			if g.HasSecondPlace(p) {
				st.SecondPlace++
			}
			agg[p] = st
		}
	}
	return agg
}
