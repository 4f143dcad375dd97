// Package polity holds the people and offices of the tribe: player
// identity records, the office configuration table, and the role ledger
// that tracks who holds which titled office.
package polity

import "github.com/google/uuid"

// Player is an identity record for one tribe member.
type Player struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Description  string    `json:"description"`
	Charisma     int       `json:"charisma"`
	Intelligence int       `json:"intelligence"`
	Strength     int       `json:"strength"`
	Traits       []string  `json:"traits,omitempty"`
}

// NewPlayer creates a player with a fresh identity.
func NewPlayer(name string, age int, description string, cha, intl, str int, traits ...string) *Player {
	return &Player{
		ID:           uuid.New(),
		Name:         name,
		Age:          age,
		Description:  description,
		Charisma:     cha,
		Intelligence: intl,
		Strength:     str,
		Traits:       traits,
	}
}

// FoundingPlayers returns the default tribe used when no saved state exists.
func FoundingPlayers() []*Player {
	return []*Player{
		NewPlayer("Alice", 35, "A strategic thinker with a calm demeanor.", 7, 9, 5, "rational", "diplomatic"),
		NewPlayer("Bob", 42, "A bold orator with a strong sense of justice.", 9, 6, 6, "passionate", "justice-driven"),
		NewPlayer("Cleo", 28, "A quiet tactician who prefers shadows over spotlight.", 5, 8, 7, "introverted", "calculating"),
		NewPlayer("Dmitri", 50, "An old warrior with deep roots in tradition.", 6, 5, 9, "conservative", "respected"),
	}
}
