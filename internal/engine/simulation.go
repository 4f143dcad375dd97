// Simulation ties the tribe's systems together: the role ledger, the
// innovation pool, and the election orchestrator, advanced turn by turn.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ArtoLabs/GovGen/internal/election"
	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/innovation"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

// ErrBallotPending blocks a turn from ending while a force-vote
// election awaits the current player's ballot.
var ErrBallotPending = errors.New("a vote must be cast before ending this turn")

// ErrNotYourTurn rejects a turn command from anyone but the turn-holder.
var ErrNotYourTurn = errors.New("not this player's turn")

// ErrNotAppointable rejects an appointment to an office that is filled
// by voting or divine selection.
var ErrNotAppointable = errors.New("office is not filled by appointment")

// ErrOfficeLocked rejects commands against an office whose required
// innovations are not yet discovered.
var ErrOfficeLocked = errors.New("office requires undiscovered innovations")

// PointsPerYear is how many innovation points the tribe generates at
// each year boundary.
const PointsPerYear = 10

// Event is a notable occurrence, year-stamped for the event log.
type Event struct {
	Year        int    `json:"year" db:"year"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
}

// SimStats tracks aggregate state for the status projection.
type SimStats struct {
	Year          int `json:"year"`
	Players       int `json:"players"`
	FilledSeats   int `json:"filled_seats"`
	LiveElections int `json:"live_elections"`
	Innovations   int `json:"innovations"`
	Points        int `json:"points"`
}

// Simulation holds the complete polity state. All mutation happens
// under one mutex: the turn loop and the HTTP command handlers are the
// only writers, and each command fully applies or fully rejects.
type Simulation struct {
	mu sync.Mutex

	Government   *polity.Government
	Pool         *innovation.Pool
	Orchestrator *election.Orchestrator
	Rng          *entropy.Source

	year      int
	turnIndex int
	events    []Event
}

// NewSimulation wires a simulation from its parts. The simulation is
// the orchestrator's clock; the ledger and pool are its collaborators.
func NewSimulation(gov *polity.Government, pool *innovation.Pool, rng *entropy.Source) *Simulation {
	s := &Simulation{
		Government: gov,
		Pool:       pool,
		Rng:        rng,
	}
	s.Orchestrator = election.NewOrchestrator(gov.Offices(), gov, pool, s, rng)
	s.Orchestrator.OnEvent = func(category, message string) {
		s.events = append(s.events, Event{Year: s.year, Description: message, Category: category})
	}
	return s
}

// CurrentYear implements the orchestrator's clock.
func (s *Simulation) CurrentYear() int { return s.year }

// SetYear restores the year from saved state.
func (s *Simulation) SetYear(year int) { s.year = year }

// SetTurnIndex restores the rotation position from saved state.
func (s *Simulation) SetTurnIndex(i int) { s.turnIndex = i }

// TurnIndex returns the rotation position.
func (s *Simulation) TurnIndex() int { return s.turnIndex }

// CurrentPlayer returns the turn-holder.
func (s *Simulation) CurrentPlayer() *polity.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPlayer()
}

func (s *Simulation) currentPlayer() *polity.Player {
	players := s.Government.Players()
	if len(players) == 0 {
		return nil
	}
	return players[s.turnIndex%len(players)]
}

// Start performs the initial vacancy scan.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orchestrator.ScanAndInitiate()
	s.Orchestrator.Advance()
}

// EndTurn closes the current player's turn. The last turn of a rotation
// advances the year: innovation points are generated, the research
// queue is settled, and the orchestrator re-scans for vacant seats.
func (s *Simulation) EndTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.currentPlayer()
	if current == nil {
		return errors.New("no players in the tribe")
	}
	if !s.Orchestrator.CanEndTurn(current.Name) {
		return fmt.Errorf("%s: %w", current.Name, ErrBallotPending)
	}

	players := s.Government.Players()
	s.turnIndex = (s.turnIndex + 1) % len(players)
	if s.turnIndex == 0 {
		s.advanceYear()
	}
	s.Orchestrator.Advance()
	return nil
}

func (s *Simulation) advanceYear() {
	s.year++
	s.Pool.AddPoints(PointsPerYear)
	s.emit("innovation", fmt.Sprintf("Year %d begins. Innovation points: %d", s.year, s.Pool.Points()))

	for _, name := range s.Pool.ProcessQueue() {
		s.emit("innovation", fmt.Sprintf("Research complete: %s", name))
	}
	if len(s.Pool.Queue()) == 0 {
		if name, ok := s.Pool.DiscoverRandom(s.Rng); ok {
			s.emit("innovation", fmt.Sprintf("Queue empty; the tribe stumbled upon %s", name))
		}
	}

	s.Orchestrator.ScanAndInitiate()
	s.Orchestrator.Advance()

	slog.Info("year boundary",
		"year", s.year,
		"points", s.Pool.Points(),
		"discovered", len(s.Pool.Discovered()),
		"live_elections", len(s.Orchestrator.Views()),
	)
}

func (s *Simulation) emit(category, description string) {
	s.events = append(s.events, Event{Year: s.year, Description: description, Category: category})
}

// requireTurn validates that player is the turn-holder.
func (s *Simulation) requireTurn(player string) error {
	current := s.currentPlayer()
	if current == nil || current.Name != player {
		return fmt.Errorf("%s: %w", player, ErrNotYourTurn)
	}
	return nil
}

// Nominate is the turn-holder's nomination command.
func (s *Simulation) Nominate(office, nominator, candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(nominator); err != nil {
		return err
	}
	return s.Orchestrator.Nominate(office, nominator, candidate)
}

// CastBallot is the turn-holder's vote command.
func (s *Simulation) CastBallot(office, voter string, ballot election.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(voter); err != nil {
		return err
	}
	return s.Orchestrator.CastBallot(office, voter, ballot)
}

// StartNominations is the turn-holder's command to open a
// command-controlled nomination window.
func (s *Simulation) StartNominations(office, player string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(player); err != nil {
		return err
	}
	return s.Orchestrator.StartNominations(office, player)
}

// CloseNominations is the turn-holder's command to close a
// command-controlled nomination window.
func (s *Simulation) CloseNominations(office, player string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(player); err != nil {
		return err
	}
	return s.Orchestrator.CloseNominations(office, player)
}

// Appoint seats a player in an appointment-selected office on the
// authority of the configured appointer office. Appointments bypass the
// election machinery entirely; the ledger still enforces seat limits.
func (s *Simulation) Appoint(office, appointer, appointee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(appointer); err != nil {
		return err
	}
	cfg, ok := s.Government.Office(office)
	if !ok {
		return fmt.Errorf("appoint to %s: %w", office, polity.ErrUnknownOffice)
	}
	if cfg.Selection != polity.SelectAppointment {
		return fmt.Errorf("appoint to %s: %w", office, ErrNotAppointable)
	}
	if !s.Pool.HasAll(cfg.Innovations) {
		return fmt.Errorf("appoint to %s: %w", office, ErrOfficeLocked)
	}
	if cfg.Appointer != polity.Anyone && !s.Government.HoldsOffice(appointer, cfg.Appointer) {
		return fmt.Errorf("%s may not appoint to %s: %w", appointer, office, election.ErrAuthorizationDenied)
	}
	seat := s.Government.HolderCount(office) + 1
	if err := s.Government.Assign(office, seat, appointee); err != nil {
		return err
	}
	s.emit("appointment", fmt.Sprintf("%s appointed %s as %s (seat %d)", appointer, appointee, office, seat))
	return nil
}

// Research queues an innovation for targeted research.
func (s *Simulation) Research(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Pool.Enqueue(name); err != nil {
		return err
	}
	s.emit("innovation", fmt.Sprintf("%s queued for research", name))
	return nil
}

// InnovationReport snapshots the pool for display.
type InnovationReport struct {
	Points     int                     `json:"points"`
	Discovered []string                `json:"discovered"`
	Available  []innovation.Innovation `json:"available"`
	Queue      []string                `json:"queue"`
}

// Innovations snapshots the discovery state for display.
func (s *Simulation) Innovations() InnovationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return InnovationReport{
		Points:     s.Pool.Points(),
		Discovered: s.Pool.Discovered(),
		Available:  s.Pool.Discoverable(),
		Queue:      s.Pool.Queue(),
	}
}

// Roster returns the tribe's players in registration order.
func (s *Simulation) Roster() []*polity.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Government.Players()
}

// PlayerOffices returns every office a player currently holds.
func (s *Simulation) PlayerOffices(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Government.PlayerOffices(name)
}

// OfficeHolders returns an office's current holders in seat order.
func (s *Simulation) OfficeHolders(office string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Government.OfficeHolders(office)
}

// QueuedSeats returns an office's pending seat indices, front first.
func (s *Simulation) QueuedSeats(office string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Orchestrator.QueuedSeats(office)
}

// ElectionViews projects the live elections for display.
func (s *Simulation) ElectionViews() []election.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Orchestrator.Views()
}

// Events returns the most recent notable events, oldest first.
func (s *Simulation) Events(limit int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if limit > 0 && len(s.events) > limit {
		start = len(s.events) - limit
	}
	out := make([]Event, len(s.events)-start)
	copy(out, s.events[start:])
	return out
}

// AllEvents returns the full event log for persistence.
func (s *Simulation) AllEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// RestoreEvents reloads the event log from saved state.
func (s *Simulation) RestoreEvents(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// Stats snapshots aggregate state for the status projection.
func (s *Simulation) Stats() SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	filled := 0
	for name := range s.Government.Offices() {
		filled += s.Government.HolderCount(name)
	}
	return SimStats{
		Year:          s.year,
		Players:       len(s.Government.Players()),
		FilledSeats:   filled,
		LiveElections: len(s.Orchestrator.Views()),
		Innovations:   len(s.Pool.Discovered()),
		Points:        s.Pool.Points(),
	}
}
