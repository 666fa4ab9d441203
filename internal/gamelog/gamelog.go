package gamelog

import (
	"time"

	"catan-tracker/internal/models"
)

// NormalizePlayer maps a raw name onto its canonical roster entry. Unknown
// names are an error, never a pass-through.
func NormalizePlayer(raw string) (models.Player, error) {
	p, ok := models.LookupPlayer(raw)
	if !ok {
		return "", &UnknownPlayerError{Name: raw}
	}
	return p, nil
}

// NormalizePlayers normalizes every name in raw, preserving order.
func NormalizePlayers(raw []string) ([]models.Player, error) {
	players := make([]models.Player, 0, len(raw))
	for _, name := range raw {
		p, err := NormalizePlayer(name)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// NewGame normalizes and validates a candidate record. The id is left unset
// for the store to assign on insert; the date is the submission time.
func NewGame(players []string, winner string, secondPlaces []string, date time.Time) (models.Game, error) {
	ps, err := NormalizePlayers(players)
	if err != nil {
		return models.Game{}, err
	}
	w, err := NormalizePlayer(winner)
	if err != nil {
		return models.Game{}, err
	}
	sps, err := NormalizePlayers(secondPlaces)
	if err != nil {
		return models.Game{}, err
	}

	g := models.Game{
		Date:         date.UTC(),
		Players:      ps,
		Winner:       w,
		SecondPlaces: sps,
	}
	if err := Validate(g); err != nil {
		return models.Game{}, err
	}
	return g, nil
}

// Validate checks the game invariants: 3-6 distinct players, the winner among
// them, and distinct second places drawn from the players minus the winner.
func Validate(g models.Game) error {
	if len(g.Players) < models.MinPlayers {
		return &InvalidGameError{Reason: "too few players"}
	}
	if len(g.Players) > models.MaxPlayers {
		return &InvalidGameError{Reason: "too many players"}
	}

	seen := make(map[models.Player]bool, len(g.Players))
	for _, p := range g.Players {
		if seen[p] {
			return &InvalidGameError{Reason: "duplicate player: " + string(p)}
		}
		seen[p] = true
	}

	if !seen[g.Winner] {
		return &InvalidGameError{Reason: "winner not in players"}
	}

	seenSecond := make(map[models.Player]bool, len(g.SecondPlaces))
	for _, p := range g.SecondPlaces {
		if p == g.Winner {
			return &InvalidGameError{Reason: "second place duplicates winner"}
		}
		if !seen[p] {
			return &InvalidGameError{Reason: "second place not in players"}
		}
		if seenSecond[p] {
			return &InvalidGameError{Reason: "duplicate second place: " + string(p)}
		}
		seenSecond[p] = true
	}

	return nil
}

// GameChanges carries the fields an edit may replace. Nil fields keep the
// stored value; id and date cannot change.
type GameChanges struct {
	Players      *[]string `json:"players,omitempty"`
	Winner       *string   `json:"winner,omitempty"`
	SecondPlaces *[]string `json:"secondPlaces,omitempty"`
}

// ApplyChanges merges the supplied fields onto an existing record and
// re-validates the result.
func ApplyChanges(g models.Game, ch GameChanges) (models.Game, error) {
	merged := g

	if ch.Players != nil {
		players, err := NormalizePlayers(*ch.Players)
		if err != nil {
			return models.Game{}, err
		}
		merged.Players = players
	}
	if ch.Winner != nil {
		winner, err := NormalizePlayer(*ch.Winner)
		if err != nil {
			return models.Game{}, err
		}
		merged.Winner = winner
	}
	if ch.SecondPlaces != nil {
		seconds, err := NormalizePlayers(*ch.SecondPlaces)
		if err != nil {
			return models.Game{}, err
		}
		merged.SecondPlaces = seconds
	}

	if err := Validate(merged); err != nil {
		return models.Game{}, err
	}
	return merged, nil
}
