package election

import "errors"

// All election errors are recoverable: the caller re-prompts, or the
// orchestrator requeues the seat. Every mutating operation validates
// its full precondition set before touching state.
var (
	ErrInvalidTransition    = errors.New("operation not valid in this phase")
	ErrAuthorizationDenied  = errors.New("not authorized")
	ErrDuplicateCandidate   = errors.New("candidate already nominated")
	ErrDuplicateVote        = errors.New("voter has already voted")
	ErrUnknownCandidate     = errors.New("not a recognized tribe member")
	ErrInvalidCandidate     = errors.New("not a candidate in this round")
	ErrMalformedBallot      = errors.New("ballot is not a permutation of the candidates")
	ErrMissingConfiguration = errors.New("election is missing required configuration")
	ErrCommitConflict       = errors.New("ledger rejected the winner")
	ErrAlreadyOccupied      = errors.New("candidate already holds this office")
)
