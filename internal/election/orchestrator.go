package election

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

// Ledger is the external role-assignment ledger the orchestrator
// commits winners to.
type Ledger interface {
	Roster
	Voters() []string
	HolderCount(office string) int
	Assign(office string, seat int, name string) error
}

// Gate is the technology gate: which innovation labels the tribe has
// discovered.
type Gate interface {
	HasAll(names []string) bool
}

// Clock supplies the current year, advanced externally once per full
// player rotation.
type Clock interface {
	CurrentYear() int
}

// Orchestrator owns the seat queue and every live election. It discovers
// vacant seats, creates and queues elections, drives phase transitions
// on each tick, and commits results to the ledger. No other component
// mutates an election or the queue.
type Orchestrator struct {
	offices map[string]polity.OfficeConfig
	order   []string // office names, sorted for deterministic scans
	ledger  Ledger
	gate    Gate
	clock   Clock
	rng     *entropy.Source

	active []*Election
	queued map[string][]int // office → pending seat indices, front first

	// OnEvent, when set, receives notable election events for the
	// simulation's event log.
	OnEvent func(category, message string)
}

// NewOrchestrator creates an orchestrator over an office table and its
// external collaborators.
func NewOrchestrator(offices map[string]polity.OfficeConfig, ledger Ledger, gate Gate, clock Clock, rng *entropy.Source) *Orchestrator {
	order := make([]string, 0, len(offices))
	for name := range offices {
		order = append(order, name)
	}
	sort.Strings(order)
	return &Orchestrator{
		offices: offices,
		order:   order,
		ledger:  ledger,
		gate:    gate,
		clock:   clock,
		rng:     rng,
		queued:  make(map[string][]int),
	}
}

func (o *Orchestrator) emit(message string) {
	slog.Debug("election", "event", message)
	if o.OnEvent != nil {
		o.OnEvent("election", message)
	}
}

// Elections returns the live elections ordered by office then seat.
func (o *Orchestrator) Elections() []*Election {
	out := make([]*Election, len(o.active))
	copy(out, o.active)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Office() != out[j].Office() {
			return out[i].Office() < out[j].Office()
		}
		return out[i].Seat() < out[j].Seat()
	})
	return out
}

// QueuedSeats returns the pending seat indices for an office, front first.
func (o *Orchestrator) QueuedSeats(office string) []int {
	out := make([]int, len(o.queued[office]))
	copy(out, o.queued[office])
	return out
}

func (o *Orchestrator) seatQueued(office string, seat int) bool {
	for _, s := range o.queued[office] {
		if s == seat {
			return true
		}
	}
	return false
}

func (o *Orchestrator) seatActive(office string, seat int) bool {
	for _, e := range o.active {
		if e.Office() == office && e.Seat() == seat {
			return true
		}
	}
	return false
}

func (o *Orchestrator) countActive(office string) int {
	n := 0
	for _, e := range o.active {
		if e.Office() == office {
			n++
		}
	}
	return n
}

// nominating reports whether an office already has an election still in
// a nomination phase; only one seat per office nominates at a time.
func (o *Orchestrator) nominating(office string) bool {
	for _, e := range o.active {
		if e.Office() != office {
			continue
		}
		if p := e.Phase(); p == NominationPending || p == NominationOpen {
			return true
		}
	}
	return false
}

// ScanAndInitiate walks the office table, enqueues every vacant seat of
// a voted office whose required innovations are discovered, and starts
// a new election for the lowest queued seat of each office that is not
// already nominating. Time-based elections open nominations
// immediately; command-based ones wait for the starter's command.
func (o *Orchestrator) ScanAndInitiate() {
	year := o.clock.CurrentYear()
	for _, name := range o.order {
		cfg := o.offices[name]
		if cfg.Selection != polity.SelectVoting {
			continue
		}
		holders := o.ledger.HolderCount(name)
		inProgress := o.countActive(name)
		vacant := cfg.MaxHolders - holders - inProgress
		if vacant > 0 && o.gate.HasAll(cfg.Innovations) {
			for seat := holders + inProgress + 1; seat <= cfg.MaxHolders; seat++ {
				if !o.seatQueued(name, seat) && !o.seatActive(name, seat) {
					o.queued[name] = append(o.queued[name], seat)
				}
			}
		}
		if len(o.queued[name]) == 0 || o.nominating(name) {
			continue
		}

		seat := o.queued[name][0]
		o.queued[name] = o.queued[name][1:]
		e, err := New(cfg, seat, o.ledger)
		if err != nil {
			slog.Error("create election", "office", name, "seat", seat, "error", err)
			o.queued[name] = append([]int{seat}, o.queued[name]...)
			continue
		}
		o.active = append(o.active, e)
		if cfg.NominationControl == polity.ControlTimeBased {
			if err := e.StartNominations(year); err != nil {
				slog.Error("auto-start nominations", "office", name, "seat", seat, "error", err)
				continue
			}
			o.emit(fmt.Sprintf("Nominations opened for %s (seat %d)", name, seat))
		} else {
			o.emit(fmt.Sprintf("%s (seat %d) awaits a command to open nominations", name, seat))
		}
	}
}

// Advance drives every live election one step. It is invoked once per
// turn and once per year boundary; elections are processed in a stable
// order (office, then seat) so cascading requeue behavior reproduces.
func (o *Orchestrator) Advance() {
	year := o.clock.CurrentYear()
	for _, e := range o.Elections() {
		if !o.isLive(e) {
			// Retired by a cascading commit earlier this pass.
			continue
		}

		if e.Phase() == NominationOpen && e.NominationPeriodOver(year) {
			if err := e.CloseNominations(); err != nil {
				slog.Error("close nominations", "office", e.Office(), "seat", e.Seat(), "error", err)
			} else {
				o.emit(fmt.Sprintf("Nominations closed for %s (seat %d)", e.Office(), e.Seat()))
			}
		}

		if e.Phase() == NominationClosed {
			switch candidates := e.Candidates(); len(candidates) {
			case 0:
				o.retire(e)
				o.requeueFront(e.Office(), e.Seat())
				o.emit(fmt.Sprintf("No candidates for %s (seat %d); seat requeued", e.Office(), e.Seat()))
				o.ScanAndInitiate()
				continue
			case 1:
				o.commit(e, candidates[0], "single candidate")
				continue
			default:
				if err := e.StartVoting(o.ledger.Voters(), year); err != nil {
					slog.Error("start voting", "office", e.Office(), "seat", e.Seat(), "error", err)
					continue
				}
				o.emit(fmt.Sprintf("Voting started for %s (seat %d): %v", e.Office(), e.Seat(), e.RoundCandidates()))
			}
		}

		if e.ReadyToResolve(year) {
			winner, done, err := e.Resolve(year, o.rng)
			if err != nil {
				slog.Error("resolve election", "office", e.Office(), "seat", e.Seat(), "error", err)
				continue
			}
			if !done {
				o.emit(fmt.Sprintf("Runoff for %s (seat %d) between %v", e.Office(), e.Seat(), e.Finalists()))
				continue
			}
			o.commit(e, winner, "elected")
		}
	}
}

// commit assigns a winner to the ledger. A rejected commit requeues the
// seat at the front of the queue and retires the failed election; the
// vacancy is retried unconditionally on following ticks.
func (o *Orchestrator) commit(e *Election, winner, how string) {
	if err := o.ledger.Assign(e.Office(), e.Seat(), winner); err != nil {
		err = fmt.Errorf("%s to %s seat %d: %v: %w", winner, e.Office(), e.Seat(), err, ErrCommitConflict)
		slog.Warn("commit failed", "office", e.Office(), "seat", e.Seat(), "winner", winner, "error", err)
		o.retire(e)
		o.requeueFront(e.Office(), e.Seat())
		o.emit(fmt.Sprintf("Could not seat %s as %s (seat %d); seat requeued", winner, e.Office(), e.Seat()))
		o.ScanAndInitiate()
		return
	}
	o.retire(e)
	o.emit(fmt.Sprintf("%s has been elected %s (seat %d, %s)", winner, e.Office(), e.Seat(), how))
	o.ScanAndInitiate()
}

func (o *Orchestrator) isLive(e *Election) bool {
	for _, live := range o.active {
		if live == e {
			return true
		}
	}
	return false
}

func (o *Orchestrator) retire(e *Election) {
	for i, live := range o.active {
		if live == e {
			o.active = append(o.active[:i], o.active[i+1:]...)
			return
		}
	}
}

func (o *Orchestrator) requeueFront(office string, seat int) {
	o.queued[office] = append([]int{seat}, o.queued[office]...)
}

// electionIn returns the first live election for an office in the given
// phase, in (office, seat) order.
func (o *Orchestrator) electionIn(office string, phases ...Phase) (*Election, bool) {
	for _, e := range o.Elections() {
		if e.Office() != office {
			continue
		}
		for _, p := range phases {
			if e.Phase() == p {
				return e, true
			}
		}
	}
	return nil, false
}

// StartNominations opens a command-controlled election's nominations on
// behalf of a player holding the starter office.
func (o *Orchestrator) StartNominations(office, player string) error {
	e, ok := o.electionIn(office, NominationPending)
	if !ok {
		return fmt.Errorf("start nominations for %s: no pending election: %w", office, ErrInvalidTransition)
	}
	if !e.CanStartNominations(player) {
		return fmt.Errorf("%s may not start nominations for %s: %w", player, office, ErrAuthorizationDenied)
	}
	if err := e.StartNominations(o.clock.CurrentYear()); err != nil {
		return err
	}
	o.emit(fmt.Sprintf("%s opened nominations for %s (seat %d)", player, office, e.Seat()))
	return nil
}

// CloseNominations closes a command-controlled election's nominations
// on behalf of a player holding the closer office.
func (o *Orchestrator) CloseNominations(office, player string) error {
	e, ok := o.electionIn(office, NominationOpen)
	if !ok {
		return fmt.Errorf("close nominations for %s: no open nomination: %w", office, ErrInvalidTransition)
	}
	if !e.CanCloseNominations(player) {
		return fmt.Errorf("%s may not close nominations for %s: %w", player, office, ErrAuthorizationDenied)
	}
	if err := e.CloseNominations(); err != nil {
		return err
	}
	o.emit(fmt.Sprintf("%s closed nominations for %s (seat %d)", player, office, e.Seat()))
	return nil
}

// Nominate routes a nomination to the office's open election.
func (o *Orchestrator) Nominate(office, nominator, candidate string) error {
	e, ok := o.electionIn(office, NominationOpen)
	if !ok {
		return fmt.Errorf("nominate for %s: no open nomination: %w", office, ErrInvalidTransition)
	}
	if err := e.Nominate(nominator, candidate); err != nil {
		return err
	}
	o.emit(fmt.Sprintf("%s nominated %s for %s (seat %d)", nominator, candidate, office, e.Seat()))
	return nil
}

// CastBallot routes a ballot to the earliest active voting round of an
// office in which the voter has not yet voted.
func (o *Orchestrator) CastBallot(office, voter string, ballot Ballot) error {
	var target *Election
	for _, e := range o.Elections() {
		if e.Office() == office && e.Phase() == VotingActive && !e.HasVoted(voter) {
			target = e
			break
		}
	}
	if target == nil {
		return fmt.Errorf("vote for %s: no active vote awaiting %s: %w", office, voter, ErrInvalidTransition)
	}
	if err := target.CastBallot(voter, ballot); err != nil {
		return err
	}
	o.emit(fmt.Sprintf("%s voted in the %s election (seat %d)", voter, office, target.Seat()))
	return nil
}

// CanEndTurn reports whether a player has no force-vote ballot pending.
func (o *Orchestrator) CanEndTurn(player string) bool {
	for _, e := range o.active {
		if !e.CanEndTurn(player) {
			return false
		}
	}
	return true
}
