package polity

import (
	"errors"
	"fmt"
)

// Ledger errors. Assign never partially applies: it validates the full
// precondition set before mutating.
var (
	ErrUnknownOffice = errors.New("unknown office")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrOfficeFull    = errors.New("office has no vacant seat")
	ErrAlreadyHolds  = errors.New("player already holds this office")
)

// Government is the role-assignment ledger: the tribe's players and the
// ordered mapping of offices to their current holders.
type Government struct {
	offices     map[string]OfficeConfig
	players     []*Player
	byName      map[string]*Player
	assignments map[string][]string // office → holder names, seat order
}

// NewGovernment creates an empty ledger over the given office table.
func NewGovernment(offices map[string]OfficeConfig) *Government {
	return &Government{
		offices:     offices,
		byName:      make(map[string]*Player),
		assignments: make(map[string][]string),
	}
}

// AddPlayer registers a tribe member. Re-adding the same name replaces
// the identity record but keeps any assignments.
func (g *Government) AddPlayer(p *Player) {
	if _, ok := g.byName[p.Name]; !ok {
		g.players = append(g.players, p)
	} else {
		for i, existing := range g.players {
			if existing.Name == p.Name {
				g.players[i] = p
				break
			}
		}
	}
	g.byName[p.Name] = p
}

// Players returns tribe members in registration order.
func (g *Government) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// PlayerByName looks up a player identity record.
func (g *Government) PlayerByName(name string) (*Player, bool) {
	p, ok := g.byName[name]
	return p, ok
}

// IsValidVoter reports whether name is a recognized tribe member.
func (g *Government) IsValidVoter(name string) bool {
	_, ok := g.byName[name]
	return ok
}

// Voters returns the names of all tribe members in registration order.
func (g *Government) Voters() []string {
	out := make([]string, len(g.players))
	for i, p := range g.players {
		out[i] = p.Name
	}
	return out
}

// Office looks up an office configuration.
func (g *Government) Office(name string) (OfficeConfig, bool) {
	cfg, ok := g.offices[name]
	return cfg, ok
}

// Offices returns the office configuration table.
func (g *Government) Offices() map[string]OfficeConfig {
	return g.offices
}

// OfficeHolders returns the names currently holding an office, in seat order.
func (g *Government) OfficeHolders(office string) []string {
	holders := g.assignments[office]
	out := make([]string, len(holders))
	copy(out, holders)
	return out
}

// HolderCount returns how many seats of an office are filled.
func (g *Government) HolderCount(office string) int {
	return len(g.assignments[office])
}

// HoldsOffice reports whether a player currently holds an office.
func (g *Government) HoldsOffice(name, office string) bool {
	for _, h := range g.assignments[office] {
		if h == name {
			return true
		}
	}
	return false
}

// PlayerOffices returns every office a player currently holds.
func (g *Government) PlayerOffices(name string) []string {
	var out []string
	for office, holders := range g.assignments {
		for _, h := range holders {
			if h == name {
				out = append(out, office)
				break
			}
		}
	}
	return out
}

// Assign adds a player to an office seat. The seat argument is a hint
// for logging; holders are stored in assignment order. Fails when the
// office is unknown, the player is unknown, every seat is filled, or
// the player already holds the office.
func (g *Government) Assign(office string, seat int, name string) error {
	cfg, ok := g.offices[office]
	if !ok {
		return fmt.Errorf("assign %s seat %d: %w", office, seat, ErrUnknownOffice)
	}
	if _, ok := g.byName[name]; !ok {
		return fmt.Errorf("assign %s to %s: %w", name, office, ErrUnknownPlayer)
	}
	if len(g.assignments[office]) >= cfg.MaxHolders {
		return fmt.Errorf("assign %s to %s: %w", name, office, ErrOfficeFull)
	}
	if g.HoldsOffice(name, office) {
		return fmt.Errorf("assign %s to %s: %w", name, office, ErrAlreadyHolds)
	}
	g.assignments[office] = append(g.assignments[office], name)
	return nil
}

// Unassign removes a player from an office. Later holders shift down a seat.
func (g *Government) Unassign(office, name string) bool {
	holders := g.assignments[office]
	for i, h := range holders {
		if h == name {
			g.assignments[office] = append(holders[:i], holders[i+1:]...)
			return true
		}
	}
	return false
}
