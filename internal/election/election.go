// Package election implements the nomination and voting engine: a
// per-seat state machine, three tally algorithms, and the orchestrator
// that discovers vacant seats, drives phase transitions each tick, and
// commits winners to the role ledger.
package election

import (
	"fmt"

	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

// Phase is the lifecycle stage of one election.
type Phase int

const (
	NominationPending Phase = iota
	NominationOpen
	NominationClosed
	VotingActive
	Resolved
)

func (p Phase) String() string {
	switch p {
	case NominationPending:
		return "nomination_pending"
	case NominationOpen:
		return "nomination_open"
	case NominationClosed:
		return "nomination_closed"
	case VotingActive:
		return "voting_active"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Ballot is one voter's submission: a single candidate name for choice
// ballots, or a full ranking for ranked-choice ballots.
type Ballot []string

// Roster is the identity and occupancy view an election validates
// nominations and ballots against. The ledger satisfies it.
type Roster interface {
	IsValidVoter(name string) bool
	HoldsOffice(name, office string) bool
	OfficeHolders(office string) []string
}

// Election is the nomination and voting state machine for one office
// seat. It is pure logic: all mutation happens synchronously inside a
// command invocation or an orchestrator tick, and every operation
// either fully applies or fully rejects.
type Election struct {
	cfg    polity.OfficeConfig
	seat   int
	roster Roster
	algo   Algorithm

	phase Phase

	// Nomination sub-state.
	nominationStartYear int
	candidates          []string

	// Voting sub-state. The voter roster is frozen when voting opens;
	// round holds the candidates eligible this round, which the
	// two-round-runoff variant narrows to the two finalists.
	voters          []string
	round           []string
	ballots         map[string]Ballot
	votingStartYear int
	finalists       []string
	roundNum        int
}

// New creates an election for one seat of a voted office.
func New(cfg polity.OfficeConfig, seat int, roster Roster) (*Election, error) {
	algo, err := ForSystem(cfg.VotingSystem)
	if err != nil {
		return nil, err
	}
	return &Election{
		cfg:    cfg,
		seat:   seat,
		roster: roster,
		algo:   algo,
		phase:  NominationPending,
	}, nil
}

// Office returns the office name this election fills.
func (e *Election) Office() string { return e.cfg.Name }

// Seat returns the seat index (1..max_holders).
func (e *Election) Seat() int { return e.seat }

// Phase returns the current lifecycle stage.
func (e *Election) Phase() Phase { return e.phase }

// Config returns the office configuration bound at creation.
func (e *Election) Config() polity.OfficeConfig { return e.cfg }

// Candidates returns the nominated candidates in nomination order.
func (e *Election) Candidates() []string {
	out := make([]string, len(e.candidates))
	copy(out, e.candidates)
	return out
}

// RoundCandidates returns the candidates eligible in the current voting
// round (the finalists once a runoff has narrowed the field).
func (e *Election) RoundCandidates() []string {
	out := make([]string, len(e.round))
	copy(out, e.round)
	return out
}

// Voters returns the roster frozen when voting opened.
func (e *Election) Voters() []string {
	out := make([]string, len(e.voters))
	copy(out, e.voters)
	return out
}

// Finalists returns the runoff pair, or nil before a runoff narrows the
// field.
func (e *Election) Finalists() []string {
	out := make([]string, len(e.finalists))
	copy(out, e.finalists)
	return out
}

// HasVoted reports whether a voter has cast a ballot this round.
func (e *Election) HasVoted(name string) bool {
	_, ok := e.ballots[name]
	return ok
}

// StartNominations opens the nomination window. Command-controlled
// elections must have a starter office configured.
func (e *Election) StartNominations(year int) error {
	if e.phase != NominationPending {
		return fmt.Errorf("start nominations for %s: %w", e.cfg.Name, ErrInvalidTransition)
	}
	if e.cfg.NominationControl == polity.ControlCommandBased && e.cfg.StarterOffice == "" {
		return fmt.Errorf("start nominations for %s: no starter office: %w", e.cfg.Name, ErrMissingConfiguration)
	}
	e.phase = NominationOpen
	e.nominationStartYear = year
	e.candidates = nil
	return nil
}

// Nominate adds a candidate. The nominator must satisfy the office's
// nomination method; the candidate must be a recognized tribe member,
// not already nominated, and not already holding this office.
func (e *Election) Nominate(nominator, candidate string) error {
	if e.phase != NominationOpen {
		return fmt.Errorf("nominate %s for %s: %w", candidate, e.cfg.Name, ErrInvalidTransition)
	}
	switch e.cfg.NominationMethod {
	case polity.NominateSelfAppointed:
		if nominator != candidate {
			return fmt.Errorf("nominate %s for %s: only self-nomination is allowed: %w",
				candidate, e.cfg.Name, ErrAuthorizationDenied)
		}
	case polity.NominateAppointed:
		if !e.canAppoint(nominator) {
			return fmt.Errorf("%s may not nominate for %s: %w", nominator, e.cfg.Name, ErrAuthorizationDenied)
		}
	}
	for _, c := range e.candidates {
		if c == candidate {
			return fmt.Errorf("nominate %s for %s: %w", candidate, e.cfg.Name, ErrDuplicateCandidate)
		}
	}
	if !e.roster.IsValidVoter(candidate) {
		return fmt.Errorf("nominate %s for %s: %w", candidate, e.cfg.Name, ErrUnknownCandidate)
	}
	if e.roster.HoldsOffice(candidate, e.cfg.Name) {
		return fmt.Errorf("nominate %s for %s: %w", candidate, e.cfg.Name, ErrAlreadyOccupied)
	}
	e.candidates = append(e.candidates, candidate)
	return nil
}

func (e *Election) canAppoint(nominator string) bool {
	appointer := e.cfg.Appointer
	if appointer == polity.Anyone {
		return true
	}
	if appointer == "" {
		return false
	}
	return e.roster.HoldsOffice(nominator, appointer)
}

// NominationPeriodOver reports whether a time-based nomination window
// has elapsed. Always false for command-controlled elections.
func (e *Election) NominationPeriodOver(year int) bool {
	if e.cfg.NominationControl != polity.ControlTimeBased || e.phase != NominationOpen {
		return false
	}
	return year-e.nominationStartYear >= e.cfg.NominationDuration
}

// CloseNominations freezes the candidate list. Nominations never reopen.
func (e *Election) CloseNominations() error {
	if e.phase != NominationOpen {
		return fmt.Errorf("close nominations for %s: %w", e.cfg.Name, ErrInvalidTransition)
	}
	e.phase = NominationClosed
	return nil
}

// CanStartNominations reports whether a player may open nominations by
// command.
func (e *Election) CanStartNominations(player string) bool {
	if e.cfg.NominationControl != polity.ControlCommandBased || e.cfg.StarterOffice == "" {
		return false
	}
	return e.roster.HoldsOffice(player, e.cfg.StarterOffice)
}

// CanCloseNominations reports whether a player may close nominations by
// command.
func (e *Election) CanCloseNominations(player string) bool {
	if e.cfg.NominationControl != polity.ControlCommandBased || e.cfg.CloserOffice == "" {
		return false
	}
	return e.roster.HoldsOffice(player, e.cfg.CloserOffice)
}

// StartVoting freezes the eligible voter roster and opens the first
// voting round. Requires at least two candidates; single-candidate and
// empty elections are settled by the orchestrator without a vote.
func (e *Election) StartVoting(eligibleVoters []string, year int) error {
	if e.phase != NominationClosed {
		return fmt.Errorf("start voting for %s: %w", e.cfg.Name, ErrInvalidTransition)
	}
	if len(e.candidates) < 2 {
		return fmt.Errorf("start voting for %s with %d candidates: %w",
			e.cfg.Name, len(e.candidates), ErrInvalidTransition)
	}
	e.phase = VotingActive
	e.voters = make([]string, len(eligibleVoters))
	copy(e.voters, eligibleVoters)
	e.round = make([]string, len(e.candidates))
	copy(e.round, e.candidates)
	e.ballots = make(map[string]Ballot)
	e.votingStartYear = year
	e.roundNum = 1
	return nil
}

// CastBallot records one voter's ballot. Ballots are immutable once cast.
func (e *Election) CastBallot(voter string, ballot Ballot) error {
	if e.phase != VotingActive {
		return fmt.Errorf("vote for %s: %w", e.cfg.Name, ErrInvalidTransition)
	}
	if !e.isEligibleVoter(voter) {
		return fmt.Errorf("%s may not vote for %s: %w", voter, e.cfg.Name, ErrAuthorizationDenied)
	}
	if _, ok := e.ballots[voter]; ok {
		return fmt.Errorf("%s voting for %s: %w", voter, e.cfg.Name, ErrDuplicateVote)
	}
	if err := e.algo.ValidateBallot(ballot, e.round); err != nil {
		return fmt.Errorf("%s voting for %s: %w", voter, e.cfg.Name, err)
	}
	b := make(Ballot, len(ballot))
	copy(b, ballot)
	e.ballots[voter] = b
	return nil
}

func (e *Election) isEligibleVoter(name string) bool {
	for _, v := range e.voters {
		if v == name {
			return true
		}
	}
	return false
}

// CanEndTurn reports whether a voter is free to end their turn: a
// force-vote election holds the turn until the voter's ballot is cast.
func (e *Election) CanEndTurn(voter string) bool {
	if !e.cfg.ForceVote || e.phase != VotingActive || !e.isEligibleVoter(voter) {
		return true
	}
	return e.HasVoted(voter)
}

// ReadyToResolve reports whether the current round may be counted: a
// vote needs at least one full year of voting, so resolution is never
// possible in the year voting opened.
func (e *Election) ReadyToResolve(year int) bool {
	return e.phase == VotingActive && year > e.votingStartYear
}

// Resolve tallies the current round. A runoff signal narrows the field
// to the two finalists, clears all ballots, and reopens voting in place
// (done=false); otherwise the election terminates with a winner.
func (e *Election) Resolve(year int, rng *entropy.Source) (winner string, done bool, err error) {
	if e.phase != VotingActive {
		return "", false, fmt.Errorf("resolve %s: %w", e.cfg.Name, ErrInvalidTransition)
	}
	ballots := make([]Ballot, 0, len(e.ballots))
	for _, v := range e.voters {
		if b, ok := e.ballots[v]; ok {
			ballots = append(ballots, b)
		}
	}
	res := e.algo.Tally(ballots, e.round, e.roundNum, rng)
	if len(res.Finalists) > 0 {
		e.finalists = res.Finalists
		e.round = make([]string, len(res.Finalists))
		copy(e.round, res.Finalists)
		e.ballots = make(map[string]Ballot)
		e.votingStartYear = year
		e.roundNum++
		return "", false, nil
	}
	e.phase = Resolved
	return res.Winner, true, nil
}
