package gamelog

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
)

// State is the in-memory dashboard view: the game log sorted most recent
// first, and the aggregate derived from it. Downstream consumers rely on the
// ordering of Games.
type State struct {
	Games []models.Game
	Stats stats.Aggregate
}

// Action is a tagged state transition over the game log.
type Action interface {
	isAction()
}

// SetGames replaces the whole collection, e.g. on a store snapshot delivery.
type SetGames struct {
	Games []models.Game
}

// AddGame appends a newly persisted record.
type AddGame struct {
	Game models.Game
}

// EditGame replaces the record with the same id.
type EditGame struct {
	Game models.Game
}

// RemoveGame drops the record with the given id.
type RemoveGame struct {
	ID primitive.ObjectID
}

func (SetGames) isAction()   {}
func (AddGame) isAction()    {}
func (EditGame) isAction()   {}
func (RemoveGame) isAction() {}

// Reduce returns the state after applying action. The input state is not
// modified; the resulting games are sorted by date, most recent first, and
// the aggregate is recomputed from the full collection.
func Reduce(s State, a Action) State {
	var games []models.Game

	switch a := a.(type) {
	case SetGames:
		games = make([]models.Game, len(a.Games))
		copy(games, a.Games)
	case AddGame:
		games = make([]models.Game, 0, len(s.Games)+1)
		games = append(games, s.Games...)
		games = append(games, a.Game)
	case EditGame:
		games = make([]models.Game, len(s.Games))
		copy(games, s.Games)
		for i, g := range games {
			if g.ID == a.Game.ID {
				games[i] = a.Game
			}
		}
	case RemoveGame:
		games = make([]models.Game, 0, len(s.Games))
		for _, g := range s.Games {
			if g.ID != a.ID {
				games = append(games, g)
			}
		}
	default:
		return s
	}

	sortByDateDesc(games)
	return State{Games: games, Stats: stats.Compute(games)}
}

func sortByDateDesc(games []models.Game) {
	slices.SortStableFunc(games, func(a, b models.Game) int {
		if a.Date.After(b.Date) {
			return -1
		}
		if a.Date.Before(b.Date) {
			return 1
		}
		return 0
	})
}

// Find returns the record with the given id from the state, if present.
func (s State) Find(id primitive.ObjectID) (models.Game, bool) {
	for _, g := range s.Games {
		if g.ID == id {
			return g, true
		}
	}
	return models.Game{}, false
}
