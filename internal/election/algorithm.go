package election

import (
	"fmt"
	"sort"

	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

// Result is the outcome of tallying one voting round. A non-empty
// Finalists slice signals a runoff: the election restarts voting
// restricted to those candidates instead of terminating.
type Result struct {
	Winner    string
	Finalists []string
}

// Algorithm is the tally strategy bound to an election. The variant set
// is closed: one concrete type per configured voting system.
type Algorithm interface {
	Name() polity.VotingSystem
	ValidateBallot(b Ballot, candidates []string) error
	Tally(ballots []Ballot, candidates []string, round int, rng *entropy.Source) Result
}

// ForSystem returns the algorithm for a configured voting system.
func ForSystem(sys polity.VotingSystem) (Algorithm, error) {
	switch sys {
	case polity.FirstPastThePost:
		return plurality{}, nil
	case polity.RankedChoice:
		return instantRunoff{}, nil
	case polity.TwoRoundRunoff:
		return twoRoundRunoff{}, nil
	}
	return nil, fmt.Errorf("voting system %q: %w", sys, ErrMissingConfiguration)
}

func contains(items []string, name string) bool {
	for _, it := range items {
		if it == name {
			return true
		}
	}
	return false
}

// validateChoice checks a single-candidate ballot.
func validateChoice(b Ballot, candidates []string) error {
	if len(b) != 1 {
		return fmt.Errorf("expected exactly one choice, got %d: %w", len(b), ErrMalformedBallot)
	}
	if !contains(candidates, b[0]) {
		return fmt.Errorf("%q: %w", b[0], ErrInvalidCandidate)
	}
	return nil
}

// countChoices tallies single-choice ballots. Every candidate appears
// in the result, at zero if nobody chose them.
func countChoices(ballots []Ballot, candidates []string) map[string]int {
	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		counts[c] = 0
	}
	for _, b := range ballots {
		counts[b[0]]++
	}
	return counts
}

// leaders returns the candidates tied for the given count, in candidate
// order for determinism before the random tie-break.
func leaders(counts map[string]int, candidates []string, target int) []string {
	var out []string
	for _, c := range candidates {
		if counts[c] == target {
			out = append(out, c)
		}
	}
	return out
}

func maxCount(counts map[string]int) int {
	m := 0
	first := true
	for _, v := range counts {
		if first || v > m {
			m = v
			first = false
		}
	}
	return m
}

// plurality is first-past-the-post: most ballots wins, ties broken
// uniformly among the tied leaders. Zero ballots cast picks a uniform
// random winner so abstention never blocks office-filling.
type plurality struct{}

func (plurality) Name() polity.VotingSystem { return polity.FirstPastThePost }

func (plurality) ValidateBallot(b Ballot, candidates []string) error {
	return validateChoice(b, candidates)
}

func (plurality) Tally(ballots []Ballot, candidates []string, _ int, rng *entropy.Source) Result {
	if len(ballots) == 0 {
		return Result{Winner: rng.Pick(candidates)}
	}
	counts := countChoices(ballots, candidates)
	top := leaders(counts, candidates, maxCount(counts))
	return Result{Winner: rng.Pick(top)}
}

// instantRunoff is ranked choice: each ballot counts toward its
// highest-ranked surviving candidate; the lowest candidate is
// eliminated (random tie-break among the minimum group) until someone
// holds a strict majority. Terminates within candidates-1 eliminations
// because ballots rank every candidate, so no ballot ever exhausts.
type instantRunoff struct{}

func (instantRunoff) Name() polity.VotingSystem { return polity.RankedChoice }

func (instantRunoff) ValidateBallot(b Ballot, candidates []string) error {
	for _, name := range b {
		if !contains(candidates, name) {
			return fmt.Errorf("%q: %w", name, ErrInvalidCandidate)
		}
	}
	if len(b) != len(candidates) {
		return fmt.Errorf("ranked %d of %d candidates: %w", len(b), len(candidates), ErrMalformedBallot)
	}
	seen := make(map[string]bool, len(b))
	for _, name := range b {
		if seen[name] {
			return fmt.Errorf("%q ranked twice: %w", name, ErrMalformedBallot)
		}
		seen[name] = true
	}
	return nil
}

func (instantRunoff) Tally(ballots []Ballot, candidates []string, _ int, rng *entropy.Source) Result {
	if len(ballots) == 0 {
		return Result{Winner: rng.Pick(candidates)}
	}

	eliminated := make(map[string]bool)
	for {
		counts := make(map[string]int)
		for _, b := range ballots {
			for _, pref := range b {
				if !eliminated[pref] {
					counts[pref]++
					break
				}
			}
		}

		total := 0
		for _, v := range counts {
			total += v
		}
		max := maxCount(counts)
		if max*2 > total {
			// A strict majority is unique.
			for _, c := range candidates {
				if counts[c] == max {
					return Result{Winner: c}
				}
			}
		}

		min := 0
		first := true
		for _, v := range counts {
			if first || v < min {
				min = v
				first = false
			}
		}
		var lowest []string
		for _, c := range candidates {
			if !eliminated[c] {
				if n, ok := counts[c]; ok && n == min {
					lowest = append(lowest, c)
				}
			}
		}
		eliminated[rng.Pick(lowest)] = true
	}
}

// twoRoundRunoff is plurality with a second round: a first round with
// no strict majority narrows the field to the top two vote-getters.
// Ties for the second runoff slot are broken uniformly among the tied
// runners-up.
type twoRoundRunoff struct{}

func (twoRoundRunoff) Name() polity.VotingSystem { return polity.TwoRoundRunoff }

func (twoRoundRunoff) ValidateBallot(b Ballot, candidates []string) error {
	return validateChoice(b, candidates)
}

func (twoRoundRunoff) Tally(ballots []Ballot, candidates []string, round int, rng *entropy.Source) Result {
	if len(ballots) == 0 {
		return Result{Winner: rng.Pick(candidates)}
	}
	counts := countChoices(ballots, candidates)
	max := maxCount(counts)
	top := leaders(counts, candidates, max)

	if max*2 > len(ballots) {
		return Result{Winner: top[0]}
	}
	if round == 1 && len(candidates) > 2 {
		return Result{Finalists: pickFinalists(counts, candidates, top, rng)}
	}
	// Second round, or a two-way first round that tied: plurality rules.
	return Result{Winner: rng.Pick(top)}
}

// pickFinalists selects the two runoff entrants from first-round counts.
func pickFinalists(counts map[string]int, candidates, top []string, rng *entropy.Source) []string {
	if len(top) >= 2 {
		return rng.Sample(top, 2)
	}
	first := top[0]

	// Highest count among the rest.
	second := 0
	for _, c := range candidates {
		if c != first && counts[c] > second {
			second = counts[c]
		}
	}
	runnersUp := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != first && counts[c] == second {
			runnersUp = append(runnersUp, c)
		}
	}
	sort.Strings(runnersUp)
	return []string{first, rng.Pick(runnersUp)}
}
