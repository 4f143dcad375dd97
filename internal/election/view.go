package election

// View is the read-only projection of one election, served to display
// layers. It carries no references into the live state machine.
type View struct {
	Office              string   `json:"office"`
	Seat                int      `json:"seat"`
	Phase               string   `json:"phase"`
	VotingSystem        string   `json:"voting_system"`
	Candidates          []string `json:"candidates,omitempty"`
	RoundCandidates     []string `json:"round_candidates,omitempty"`
	Finalists           []string `json:"finalists,omitempty"`
	AwaitingVoters      []string `json:"awaiting_voters,omitempty"`
	NominationStartYear int      `json:"nomination_start_year,omitempty"`
	VotingStartYear     int      `json:"voting_start_year,omitempty"`
	Round               int      `json:"round,omitempty"`
}

// View snapshots the election for display.
func (e *Election) View() View {
	v := View{
		Office:       e.cfg.Name,
		Seat:         e.seat,
		Phase:        e.phase.String(),
		VotingSystem: string(e.cfg.VotingSystem),
		Candidates:   e.Candidates(),
	}
	switch e.phase {
	case NominationOpen:
		v.NominationStartYear = e.nominationStartYear
	case VotingActive:
		v.RoundCandidates = e.RoundCandidates()
		v.Finalists = e.Finalists()
		v.VotingStartYear = e.votingStartYear
		v.Round = e.roundNum
		for _, voter := range e.voters {
			if !e.HasVoted(voter) {
				v.AwaitingVoters = append(v.AwaitingVoters, voter)
			}
		}
	}
	return v
}

// Views projects every live election in (office, seat) order.
func (o *Orchestrator) Views() []View {
	elections := o.Elections()
	out := make([]View, len(elections))
	for i, e := range elections {
		out[i] = e.View()
	}
	return out
}
