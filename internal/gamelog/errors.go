package gamelog

import (
	"errors"
	"fmt"
)

// ErrGameNotFound reports an operation against a game id that is not in the
// log. Update and remove both return it; neither is a silent no-op.
var ErrGameNotFound = errors.New("game not found")

// UnknownPlayerError reports a raw name that does not map onto the roster.
type UnknownPlayerError struct {
	Name string
}

func (e *UnknownPlayerError) Error() string {
	return fmt.Sprintf("unknown player name: %q", e.Name)
}

// InvalidGameError reports a candidate record that violates the game
// invariants. Reason names the violated rule.
type InvalidGameError struct {
	Reason string
}

func (e *InvalidGameError) Error() string {
	return "invalid game: " + e.Reason
}
