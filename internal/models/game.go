package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Player count bounds for a single game.
const (
	MinPlayers = 3
	MaxPlayers = 6
)

// Game is one completed game. The id is assigned by the store on insert and
// never changes; the date is the submission time and is likewise immutable.
// An empty SecondPlaces marks a perfect game.
type Game struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Date         time.Time          `json:"date" bson:"date"`
	Players      []Player           `json:"players" bson:"players"`
	Winner       Player             `json:"winner" bson:"winner"`
	SecondPlaces []Player           `json:"secondPlaces" bson:"secondPlaces"`
}

// IsPerfect reports whether the game was won without any second places.
func (g Game) IsPerfect() bool {
	return len(g.SecondPlaces) == 0
}

// HasPlayer reports whether p participated in the game.
func (g Game) HasPlayer(p Player) bool {
	for _, entry := range g.Players {
		if entry == p {
			return true
		}
	}
	return false
}

// HasSecondPlace reports whether p finished second in the game.
func (g Game) HasSecondPlace(p Player) bool {
	for _, entry := range g.SecondPlaces {
		if entry == p {
			return true
		}
	}
	return false
}
