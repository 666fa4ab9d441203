package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catan-tracker/internal/models"
)

func testGame(day int, players []models.Player, winner models.Player, seconds ...models.Player) models.Game {
	return models.Game{
		Date:         time.Date(2026, 2, day, 20, 0, 0, 0, time.UTC),
		Players:      players,
		Winner:       winner,
		SecondPlaces: seconds,
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()

	games := []models.Game{
		testGame(1, []models.Player{models.Antoine, models.Chadi, models.Jeff}, models.Antoine, models.Chadi),
		testGame(2, []models.Player{models.Antoine, models.Chadi, models.Jeff, models.Roudy}, models.Chadi, models.Jeff),
		testGame(3, []models.Player{models.Antoine, models.Chadi, models.Jeff}, models.Antoine),
	}

	agg := Compute(games)

	require.Len(t, agg, 4)
	assert.Equal(t, PlayerStats{Participations: 3, Wins: 2, SecondPlace: 0}, agg[models.Antoine])
	assert.Equal(t, PlayerStats{Participations: 3, Wins: 1, SecondPlace: 1}, agg[models.Chadi])
	assert.Equal(t, PlayerStats{Participations: 3, Wins: 0, SecondPlace: 1}, agg[models.Jeff])
	assert.Equal(t, PlayerStats{Participations: 1, Wins: 0, SecondPlace: 0}, agg[models.Roudy])
}

func TestComputeOrderIndependent(t *testing.T) {
	t.Parallel()

	games := []models.Game{
		testGame(1, []models.Player{models.Antoine, models.Chadi, models.Jeff}, models.Antoine),
		testGame(2, []models.Player{models.Antoine, models.Chadi, models.Nick}, models.Nick, models.Antoine),
		testGame(3, []models.Player{models.Chadi, models.Jeff, models.Nick}, models.Chadi, models.Jeff),
	}
	reversed := []models.Game{games[2], games[1], games[0]}

	assert.Equal(t, Compute(games), Compute(reversed))
}

func TestComputeInvariants(t *testing.T) {
	t.Parallel()

	games := []models.Game{
		testGame(1, []models.Player{models.Antoine, models.Chadi, models.Jeff, models.Roudy}, models.Roudy, models.Antoine),
		testGame(2, []models.Player{models.Antoine, models.Chadi, models.Jeff}, models.Chadi),
		testGame(3, []models.Player{models.Antoine, models.DonJon, models.Nick}, models.Antoine, models.Nick),
	}

	agg := Compute(games)

	totalSeats := 0
	for _, g := range games {
		totalSeats += len(g.Players)
	}
	totalParticipations, totalWins := 0, 0
	for _, st := range agg {
		totalParticipations += st.Participations
		totalWins += st.Wins
		assert.LessOrEqual(t, st.Wins, st.Participations)
		assert.LessOrEqual(t, st.SecondPlace, st.Participations)
	}
	assert.Equal(t, totalSeats, totalParticipations)
	assert.Equal(t, len(games), totalWins)
}

func TestComputeEmptyLog(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Compute(nil))
}

func TestPlayerStatsPercentages(t *testing.T) {
	t.Parallel()

	st := PlayerStats{Participations: 8, Wins: 2, SecondPlace: 4}
	assert.InDelta(t, 25.0, st.WinPercentage(), 1e-9)
	assert.InDelta(t, 50.0, st.SecondPlacePercentage(), 1e-9)

	t.Run("no participations is zero, not NaN", func(t *testing.T) {
		t.Parallel()
		var empty PlayerStats
		assert.Equal(t, 0.0, empty.WinPercentage())
		assert.Equal(t, 0.0, empty.SecondPlacePercentage())
	})
}
