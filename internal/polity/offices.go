package polity

// SelectionMethod is how an office's seats are filled.
type SelectionMethod string

const (
	SelectVoting      SelectionMethod = "voting"
	SelectAppointment SelectionMethod = "appointment"
	SelectDivine      SelectionMethod = "divine_appointment"
)

// VotingSystem picks the tally algorithm for a voted office.
type VotingSystem string

const (
	FirstPastThePost VotingSystem = "first_past_the_post"
	RankedChoice     VotingSystem = "ranked_choice"
	TwoRoundRunoff   VotingSystem = "two_round_runoff"
)

// NominationMethod restricts who may nominate whom.
type NominationMethod string

const (
	NominateOpen          NominationMethod = "open"
	NominateSelfAppointed NominationMethod = "self_appointed"
	NominateAppointed     NominationMethod = "appointed"
)

// NominationControl decides how the nomination window opens and closes.
type NominationControl string

const (
	ControlTimeBased    NominationControl = "time_based"
	ControlCommandBased NominationControl = "command_based"
)

// Anyone is the wildcard appointer: any tribe member may nominate.
const Anyone = "anyone"

// OfficeConfig describes one titled office: how many seats it has, how
// they are filled, and which innovations gate it.
type OfficeConfig struct {
	Name               string            `json:"name"`
	MaxHolders         int               `json:"max_holders"`
	Selection          SelectionMethod   `json:"selection_method"`
	VotingSystem       VotingSystem      `json:"voting_system,omitempty"`
	NominationMethod   NominationMethod  `json:"nomination_method,omitempty"`
	Appointer          string            `json:"appointer,omitempty"`
	ForceVote          bool              `json:"force_vote,omitempty"`
	NominationControl  NominationControl `json:"nomination_control,omitempty"`
	NominationDuration int               `json:"nomination_duration,omitempty"`
	StarterOffice      string            `json:"starter_office,omitempty"`
	CloserOffice       string            `json:"closer_office,omitempty"`
	Innovations        []string          `json:"innovations,omitempty"`
}

// TribalOffices is the office table of the tribal government type.
func TribalOffices() map[string]OfficeConfig {
	return map[string]OfficeConfig{
		"Elder": {
			Name:               "Elder",
			MaxHolders:         2,
			Selection:          SelectVoting,
			VotingSystem:       FirstPastThePost,
			NominationMethod:   NominateAppointed,
			Appointer:          Anyone,
			ForceVote:          true,
			NominationControl:  ControlTimeBased,
			NominationDuration: 1,
			Innovations:        []string{"Tribalism"},
		},
		"Clan Leader": {
			Name:        "Clan Leader",
			MaxHolders:  2,
			Selection:   SelectAppointment,
			Appointer:   "Elder",
			ForceVote:   true,
			Innovations: []string{"Tribalism"},
		},
		"Chieftain": {
			Name:              "Chieftain",
			MaxHolders:        1,
			Selection:         SelectVoting,
			VotingSystem:      FirstPastThePost,
			NominationMethod:  NominateAppointed,
			Appointer:         "Elder",
			ForceVote:         true,
			NominationControl: ControlCommandBased,
			StarterOffice:     "Elder",
			CloserOffice:      "Clan Leader",
			Innovations:       []string{"Chieftainship"},
		},
		"Head Warrior": {
			Name:        "Head Warrior",
			MaxHolders:  2,
			Selection:   SelectAppointment,
			Appointer:   "Chieftain",
			Innovations: []string{"Hierarchy", "Warrior Command"},
		},
		"Shaman": {
			Name:        "Shaman",
			MaxHolders:  1,
			Selection:   SelectAppointment,
			Appointer:   "Chieftain",
			Innovations: []string{"Divine Right"},
		},
		"Warrior": {
			Name:        "Warrior",
			MaxHolders:  500,
			Selection:   SelectAppointment,
			Appointer:   "Head Warrior",
			Innovations: []string{"Warriors"},
		},
		"Guardian-Enforcer": {
			Name:        "Guardian-Enforcer",
			MaxHolders:  500,
			Selection:   SelectAppointment,
			Appointer:   "Chieftain",
			Innovations: []string{"Chieftainship", "Centralized Authority", "Distribution"},
		},
		"Priest": {
			Name:        "Priest",
			MaxHolders:  10,
			Selection:   SelectDivine,
			Innovations: []string{"Religion"},
		},
		"Initiate": {
			Name:        "Initiate",
			MaxHolders:  100,
			Selection:   SelectAppointment,
			Appointer:   "Priest",
			Innovations: []string{"Religion"},
		},
		"Outcast": {
			Name:        "Outcast",
			MaxHolders:  500,
			Selection:   SelectAppointment,
			Appointer:   "Chieftain",
			Innovations: []string{"Ostracism"},
		},
		"Steward": {
			Name:        "Steward",
			MaxHolders:  1,
			Selection:   SelectAppointment,
			Appointer:   "Chieftain",
			Innovations: []string{"Chieftainship", "Centralized Authority"},
		},
		"Grain Keeper": {
			Name:        "Grain Keeper",
			MaxHolders:  1,
			Selection:   SelectAppointment,
			Appointer:   "Chieftain",
			Innovations: []string{"Chieftainship", "Centralized Authority"},
		},
		"Hereditary Chieftain": {
			Name:        "Hereditary Chieftain",
			MaxHolders:  1,
			Selection:   SelectDivine,
			Innovations: []string{"Hereditary Rule"},
		},
	}
}
