package gamelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catan-tracker/internal/models"
)

func gameOn(day int, winner models.Player, seconds ...models.Player) models.Game {
	return models.Game{
		ID:           primitive.NewObjectID(),
		Date:         time.Date(2026, 3, day, 20, 0, 0, 0, time.UTC),
		Players:      []models.Player{models.Antoine, models.Chadi, models.Jeff},
		Winner:       winner,
		SecondPlaces: seconds,
	}
}

func TestReduceSetGames(t *testing.T) {
	t.Parallel()

	g1 := gameOn(1, models.Antoine, models.Chadi)
	g2 := gameOn(2, models.Chadi)
	g3 := gameOn(3, models.Antoine, models.Jeff)

	// Deliver in ascending order; the state must come out most recent first.
	state := Reduce(State{}, SetGames{Games: []models.Game{g1, g2, g3}})

	require.Len(t, state.Games, 3)
	assert.Equal(t, g3.ID, state.Games[0].ID)
	assert.Equal(t, g2.ID, state.Games[1].ID)
	assert.Equal(t, g1.ID, state.Games[2].ID)

	assert.Equal(t, 2, state.Stats[models.Antoine].Wins)
	assert.Equal(t, 3, state.Stats[models.Antoine].Participations)
	assert.Equal(t, 1, state.Stats[models.Chadi].SecondPlace)
}

func TestReduceAddGame(t *testing.T) {
	t.Parallel()

	g1 := gameOn(1, models.Antoine)
	g2 := gameOn(5, models.Chadi)
	state := Reduce(State{}, SetGames{Games: []models.Game{g1, g2}})

	// A backdated game still lands in date order.
	g3 := gameOn(3, models.Jeff)
	next := Reduce(state, AddGame{Game: g3})

	require.Len(t, next.Games, 3)
	assert.Equal(t, g2.ID, next.Games[0].ID)
	assert.Equal(t, g3.ID, next.Games[1].ID)
	assert.Equal(t, g1.ID, next.Games[2].ID)
	assert.Equal(t, 1, next.Stats[models.Jeff].Wins)

	// The input state is untouched.
	assert.Len(t, state.Games, 2)
	assert.Equal(t, 0, state.Stats[models.Jeff].Wins)
}

func TestReduceEditGame(t *testing.T) {
	t.Parallel()

	g1 := gameOn(1, models.Antoine)
	g2 := gameOn(2, models.Antoine)
	state := Reduce(State{}, SetGames{Games: []models.Game{g1, g2}})

	edited := g2
	edited.Winner = models.Chadi
	next := Reduce(state, EditGame{Game: edited})

	require.Len(t, next.Games, 2)
	assert.Equal(t, models.Chadi, next.Games[0].Winner)
	assert.Equal(t, 1, next.Stats[models.Antoine].Wins)
	assert.Equal(t, 1, next.Stats[models.Chadi].Wins)

	t.Run("unknown id leaves games unchanged", func(t *testing.T) {
		t.Parallel()
		stranger := gameOn(9, models.Nick)
		same := Reduce(state, EditGame{Game: stranger})
		assert.Len(t, same.Games, 2)
		assert.Equal(t, 2, same.Stats[models.Antoine].Wins)
	})
}

func TestReduceRemoveGame(t *testing.T) {
	t.Parallel()

	g1 := gameOn(1, models.Antoine)
	g2 := gameOn(2, models.Chadi)
	state := Reduce(State{}, SetGames{Games: []models.Game{g1, g2}})

	next := Reduce(state, RemoveGame{ID: g2.ID})
	require.Len(t, next.Games, 1)
	assert.Equal(t, g1.ID, next.Games[0].ID)
	_, ok := next.Stats[models.Chadi]
	assert.True(t, ok, "Chadi still participated in the remaining game")
	assert.Equal(t, 0, next.Stats[models.Chadi].Wins)
}

func TestReduceAddThenRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	g1 := gameOn(1, models.Antoine, models.Chadi)
	g2 := gameOn(2, models.Chadi)
	base := Reduce(State{}, SetGames{Games: []models.Game{g1, g2}})

	extra := gameOn(3, models.Jeff, models.Antoine)
	restored := Reduce(Reduce(base, AddGame{Game: extra}), RemoveGame{ID: extra.ID})

	assert.Equal(t, base.Stats, restored.Stats)
	require.Len(t, restored.Games, len(base.Games))
	for i := range base.Games {
		assert.Equal(t, base.Games[i].ID, restored.Games[i].ID)
	}
}

func TestStateFind(t *testing.T) {
	t.Parallel()

	g1 := gameOn(1, models.Antoine)
	state := Reduce(State{}, SetGames{Games: []models.Game{g1}})

	found, ok := state.Find(g1.ID)
	require.True(t, ok)
	assert.Equal(t, g1.ID, found.ID)

	_, ok = state.Find(primitive.NewObjectID())
	assert.False(t, ok)
}
