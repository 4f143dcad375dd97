package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

func testOffices() map[string]polity.OfficeConfig {
	return map[string]polity.OfficeConfig{
		"Elder": {
			Name:               "Elder",
			MaxHolders:         2,
			Selection:          polity.SelectVoting,
			VotingSystem:       polity.FirstPastThePost,
			NominationMethod:   polity.NominateOpen,
			ForceVote:          true,
			NominationControl:  polity.ControlTimeBased,
			NominationDuration: 1,
		},
		"Chieftain": {
			Name:              "Chieftain",
			MaxHolders:        1,
			Selection:         polity.SelectVoting,
			VotingSystem:      polity.FirstPastThePost,
			NominationMethod:  polity.NominateAppointed,
			Appointer:         "Elder",
			NominationControl: polity.ControlCommandBased,
			StarterOffice:     "Elder",
			CloserOffice:      "Elder",
		},
		"Speaker": {
			Name:               "Speaker",
			MaxHolders:         1,
			Selection:          polity.SelectVoting,
			VotingSystem:       polity.TwoRoundRunoff,
			NominationMethod:   polity.NominateOpen,
			NominationControl:  polity.ControlTimeBased,
			NominationDuration: 1,
		},
		"Council": {
			Name:               "Council",
			MaxHolders:         1,
			Selection:          polity.SelectVoting,
			VotingSystem:       polity.RankedChoice,
			NominationMethod:   polity.NominateSelfAppointed,
			NominationControl:  polity.ControlTimeBased,
			NominationDuration: 1,
		},
	}
}

func testTribe(t *testing.T, names ...string) *polity.Government {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Alice", "Bob", "Cleo", "Dmitri"}
	}
	gov := polity.NewGovernment(testOffices())
	for _, n := range names {
		gov.AddPlayer(polity.NewPlayer(n, 30, "", 5, 5, 5))
	}
	return gov
}

func newTestElection(t *testing.T, gov *polity.Government, office string, seat int) *Election {
	t.Helper()
	cfg, ok := gov.Office(office)
	require.True(t, ok)
	e, err := New(cfg, seat, gov)
	require.NoError(t, err)
	return e
}

func TestStartNominationsOnlyOnce(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)

	require.NoError(t, e.StartNominations(3))
	assert.Equal(t, NominationOpen, e.Phase())

	err := e.StartNominations(3)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCommandControlledNeedsStarterOffice(t *testing.T) {
	gov := testTribe(t)
	cfg, _ := gov.Office("Chieftain")
	cfg.StarterOffice = ""
	e, err := New(cfg, 1, gov)
	require.NoError(t, err)

	err = e.StartNominations(0)
	assert.ErrorIs(t, err, ErrMissingConfiguration)
	assert.Equal(t, NominationPending, e.Phase())
}

func TestNominateOutsideNominationPhase(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)

	err := e.Nominate("Alice", "Bob")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, e.StartNominations(0))
	require.NoError(t, e.Nominate("Alice", "Bob"))
	require.NoError(t, e.CloseNominations())

	err = e.Nominate("Alice", "Cleo")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNominateSelfAppointedOnly(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Council", 1)
	require.NoError(t, e.StartNominations(0))

	err := e.Nominate("Alice", "Bob")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	assert.NoError(t, e.Nominate("Bob", "Bob"))
}

func TestNominateAppointedRequiresAppointerOffice(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Chieftain", 1)
	require.NoError(t, e.StartNominations(0))

	err := e.Nominate("Alice", "Bob")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	require.NoError(t, gov.Assign("Elder", 1, "Alice"))
	assert.NoError(t, e.Nominate("Alice", "Bob"))
}

func TestNominateWildcardAppointer(t *testing.T) {
	gov := testTribe(t)
	cfg, _ := gov.Office("Chieftain")
	cfg.Appointer = polity.Anyone
	e, err := New(cfg, 1, gov)
	require.NoError(t, err)
	require.NoError(t, e.StartNominations(0))

	assert.NoError(t, e.Nominate("Dmitri", "Bob"))
}

func TestNominateRejectsDuplicateUnknownAndOccupied(t *testing.T) {
	gov := testTribe(t)
	require.NoError(t, gov.Assign("Elder", 1, "Cleo"))
	e := newTestElection(t, gov, "Elder", 2)
	require.NoError(t, e.StartNominations(0))

	require.NoError(t, e.Nominate("Alice", "Bob"))
	assert.ErrorIs(t, e.Nominate("Alice", "Bob"), ErrDuplicateCandidate)
	assert.ErrorIs(t, e.Nominate("Alice", "Ziggy"), ErrUnknownCandidate)
	assert.ErrorIs(t, e.Nominate("Alice", "Cleo"), ErrAlreadyOccupied)

	assert.Equal(t, []string{"Bob"}, e.Candidates())
}

func TestNominationPeriodOver(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)

	assert.False(t, e.NominationPeriodOver(10), "not open yet")

	require.NoError(t, e.StartNominations(3))
	assert.False(t, e.NominationPeriodOver(3))
	assert.True(t, e.NominationPeriodOver(4))

	// Command-controlled elections never time out.
	cmd := newTestElection(t, gov, "Chieftain", 1)
	require.NoError(t, cmd.StartNominations(3))
	assert.False(t, cmd.NominationPeriodOver(99))
}

func TestCloseNominationsRequiresOpen(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)

	assert.ErrorIs(t, e.CloseNominations(), ErrInvalidTransition)

	require.NoError(t, e.StartNominations(0))
	require.NoError(t, e.CloseNominations())
	assert.ErrorIs(t, e.CloseNominations(), ErrInvalidTransition)
}

func TestStartVotingRequiresTwoCandidates(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)
	require.NoError(t, e.StartNominations(0))
	require.NoError(t, e.Nominate("Alice", "Bob"))

	// Still open.
	err := e.StartVoting(gov.Voters(), 0)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, e.CloseNominations())
	err = e.StartVoting(gov.Voters(), 0)
	assert.ErrorIs(t, err, ErrInvalidTransition, "one candidate resolves without a vote")
}

func TestCastBallotDuringNominationsFails(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)
	require.NoError(t, e.StartNominations(0))
	require.NoError(t, e.Nominate("Alice", "Bob"))

	err := e.CastBallot("Alice", Ballot{"Bob"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func votingElection(t *testing.T, gov *polity.Government, office string, year int, candidates ...string) *Election {
	t.Helper()
	e := newTestElection(t, gov, office, 1)
	require.NoError(t, e.StartNominations(year))
	for _, c := range candidates {
		require.NoError(t, e.Nominate(c, c))
	}
	require.NoError(t, e.CloseNominations())
	require.NoError(t, e.StartVoting(gov.Voters(), year))
	return e
}

func TestCastBallotValidation(t *testing.T) {
	gov := testTribe(t)
	e := votingElection(t, gov, "Elder", 0, "Bob", "Cleo")

	assert.ErrorIs(t, e.CastBallot("Ziggy", Ballot{"Bob"}), ErrAuthorizationDenied)
	assert.ErrorIs(t, e.CastBallot("Alice", Ballot{"Dmitri"}), ErrInvalidCandidate)
	assert.ErrorIs(t, e.CastBallot("Alice", Ballot{"Bob", "Cleo"}), ErrMalformedBallot)

	require.NoError(t, e.CastBallot("Alice", Ballot{"Bob"}))
	assert.ErrorIs(t, e.CastBallot("Alice", Ballot{"Cleo"}), ErrDuplicateVote)
	assert.True(t, e.HasVoted("Alice"))
}

func TestRankedBallotMustBeExactPermutation(t *testing.T) {
	gov := testTribe(t)
	e := votingElection(t, gov, "Council", 0, "Alice", "Bob", "Cleo")

	cases := []struct {
		name   string
		ballot Ballot
		want   error
	}{
		{"omits a candidate", Ballot{"Alice", "Bob"}, ErrMalformedBallot},
		{"repeats a candidate", Ballot{"Alice", "Bob", "Bob"}, ErrMalformedBallot},
		{"unknown name", Ballot{"Alice", "Bob", "Ziggy"}, ErrInvalidCandidate},
		{"too long", Ballot{"Alice", "Bob", "Cleo", "Alice"}, ErrMalformedBallot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.CastBallot("Dmitri", tc.ballot)
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, e.HasVoted("Dmitri"), "rejected ballot must not mutate state")
		})
	}

	assert.NoError(t, e.CastBallot("Dmitri", Ballot{"Cleo", "Alice", "Bob"}))
}

func TestReadyToResolveNeedsAFullYear(t *testing.T) {
	gov := testTribe(t)
	e := votingElection(t, gov, "Elder", 5, "Bob", "Cleo")

	assert.False(t, e.ReadyToResolve(5), "never in the year voting opened")
	assert.True(t, e.ReadyToResolve(6))
	assert.True(t, e.ReadyToResolve(7))
}

func TestRosterFrozenWhenVotingOpens(t *testing.T) {
	gov := testTribe(t)
	e := votingElection(t, gov, "Elder", 0, "Bob", "Cleo")

	gov.AddPlayer(polity.NewPlayer("Esther", 20, "", 5, 5, 5))
	assert.ErrorIs(t, e.CastBallot("Esther", Ballot{"Bob"}), ErrAuthorizationDenied)
	assert.Len(t, e.Voters(), 4)
}

func TestResolveRunoffClearsBallotsAndNarrowsField(t *testing.T) {
	gov := testTribe(t, "Alice", "Bob", "Cleo", "Dmitri", "Esther")
	e := votingElection(t, gov, "Speaker", 1, "Alice", "Bob", "Cleo")

	require.NoError(t, e.CastBallot("Alice", Ballot{"Alice"}))
	require.NoError(t, e.CastBallot("Bob", Ballot{"Alice"}))
	require.NoError(t, e.CastBallot("Cleo", Ballot{"Bob"}))
	require.NoError(t, e.CastBallot("Dmitri", Ballot{"Bob"}))
	require.NoError(t, e.CastBallot("Esther", Ballot{"Cleo"}))

	winner, done, err := e.Resolve(2, entropy.New(1))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, winner)

	assert.Equal(t, VotingActive, e.Phase())
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, e.Finalists())
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, e.RoundCandidates())
	for _, v := range gov.Voters() {
		assert.False(t, e.HasVoted(v), "runoff must clear all prior ballots")
	}

	// Round two is gated by the year it restarted in.
	assert.False(t, e.ReadyToResolve(2))
	assert.True(t, e.ReadyToResolve(3))

	// Eliminated candidates are no longer votable.
	assert.ErrorIs(t, e.CastBallot("Esther", Ballot{"Cleo"}), ErrInvalidCandidate)

	require.NoError(t, e.CastBallot("Alice", Ballot{"Bob"}))
	require.NoError(t, e.CastBallot("Bob", Ballot{"Bob"}))
	require.NoError(t, e.CastBallot("Cleo", Ballot{"Bob"}))

	winner, done, err = e.Resolve(3, entropy.New(1))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "Bob", winner)
	assert.Equal(t, Resolved, e.Phase())
}

func TestResolveOutsideVotingFails(t *testing.T) {
	gov := testTribe(t)
	e := newTestElection(t, gov, "Elder", 1)

	_, _, err := e.Resolve(1, entropy.New(1))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCanEndTurnForceVote(t *testing.T) {
	gov := testTribe(t)
	e := votingElection(t, gov, "Elder", 0, "Bob", "Cleo")

	assert.False(t, e.CanEndTurn("Alice"), "force-vote election holds the turn")
	require.NoError(t, e.CastBallot("Alice", Ballot{"Bob"}))
	assert.True(t, e.CanEndTurn("Alice"))

	// Outsiders are never held.
	assert.True(t, e.CanEndTurn("Ziggy"))
}
