package models

import "strings"

// Player is one of the fixed roster of recognized players. Player values are
// always canonical roster entries; raw input goes through LookupPlayer first.
type Player string

const (
	Antoine Player = "Antoine"
	DonJon  Player = "Don Jon"
	Chadi   Player = "Chadi"
	Jeff    Player = "Jeff"
	Roudy   Player = "Roudy"
	Roy     Player = "Roy"
	Mike    Player = "Mike"
	Mario   Player = "Mario"
	Nick    Player = "Nick"
)

// rosterOrder is the canonical roster order. Deterministic tie-breaks in
// sorted views use a player's position here.
var rosterOrder = []Player{
	Antoine,
	DonJon,
	Chadi,
	Jeff,
	Roudy,
	Roy,
	Mike,
	Mario,
	Nick,
}

var rosterByName = buildRosterIndex()

func buildRosterIndex() map[string]Player {
	idx := make(map[string]Player, len(rosterOrder))
	for _, p := range rosterOrder {
		idx[strings.ToLower(string(p))] = p
	}
	return idx
}

// Roster returns the canonical roster in its fixed order.
func Roster() []Player {
	roster := make([]Player, len(rosterOrder))
	copy(roster, rosterOrder)
	return roster
}

// LookupPlayer maps a raw name onto its canonical roster entry. Matching is
// case-insensitive and ignores surrounding whitespace.
func LookupPlayer(raw string) (Player, bool) {
	p, ok := rosterByName[strings.ToLower(strings.TrimSpace(raw))]
	return p, ok
}

// RosterIndex returns a player's position in the canonical roster order, or
// len(roster) for a value that is not a roster entry.
func RosterIndex(p Player) int {
	for i, entry := range rosterOrder {
		if entry == p {
			return i
		}
	}
	return len(rosterOrder)
}
