// Package innovation implements the discovery tree: a catalog of named
// innovations with prerequisites and point costs, and a pool tracking
// what the tribe has discovered. The pool's discovered set is the
// technology gate consumed by the election orchestrator.
package innovation

// Innovation is one discoverable advance in the tribal tree.
type Innovation struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Branch        string   `json:"branch"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Cost          int      `json:"cost"`
}

// Discoverable reports whether every prerequisite is in the discovered set.
func (i Innovation) Discoverable(discovered map[string]bool) bool {
	for _, p := range i.Prerequisites {
		if !discovered[p] {
			return false
		}
	}
	return true
}

// Catalog returns the tribal innovation tree.
func Catalog() map[string]Innovation {
	list := []Innovation{
		// Leadership.
		{Name: "Fire", Description: "Control of fire for warmth and cooking.", Branch: "leadership", Cost: 0},
		{Name: "Language", Description: "Spoken communication for coordination.", Branch: "leadership", Cost: 0},
		{Name: "Tribalism", Description: "Organized kinship groups for social structure.", Branch: "leadership", Prerequisites: []string{"Language"}, Cost: 0},
		{Name: "Hierarchy", Description: "Structured social ranks for authority.", Branch: "leadership", Prerequisites: []string{"Tribalism"}, Cost: 0},
		{Name: "Chieftainship", Description: "Formalized tribal leadership.", Branch: "leadership", Prerequisites: []string{"Tribalism"}, Cost: 20},
		{Name: "Hereditary Rule", Description: "Power passed through family lineage.", Branch: "leadership", Prerequisites: []string{"Chieftainship"}, Cost: 25},
		{Name: "Warrior Command", Description: "Organized leadership for armed forces.", Branch: "leadership", Prerequisites: []string{"Hierarchy"}, Cost: 25},
		{Name: "Centralized Authority", Description: "Unified control over tribal groups.", Branch: "leadership", Prerequisites: []string{"Hierarchy"}, Cost: 20},
		{Name: "Diplomacy", Description: "Negotiation with external groups.", Branch: "leadership", Prerequisites: []string{"Language"}, Cost: 18},
		{Name: "Divine Right", Description: "Leaders chosen by divine will.", Branch: "leadership", Prerequisites: []string{"Chieftainship"}, Cost: 25},
		{Name: "Distribution", Description: "Leaders can distribute goods from storage to the tribe.", Branch: "leadership", Prerequisites: []string{"Chieftainship", "Storage", "Oral History", "Forest Gardening"}, Cost: 25},

		// Military.
		{Name: "Warriors", Description: "Basic ability to appoint warriors within the tribe.", Branch: "military", Prerequisites: []string{"Warrior Command"}, Cost: 20},
		{Name: "Tactical Coordination", Description: "Coordinated warrior tactics.", Branch: "military", Prerequisites: []string{"Warriors"}, Cost: 15},
		{Name: "Weapon Crafting", Description: "Advanced tools for combat.", Branch: "military", Prerequisites: []string{"Toolmaking", "Warriors"}, Cost: 15},

		// Legislative.
		{Name: "Symbolism", Description: "Basic understanding of symbols.", Branch: "legislative", Cost: 0},
		{Name: "Oral History", Description: "Memorization of important tribal events and judgments.", Branch: "legislative", Prerequisites: []string{"Symbolism", "Language"}, Cost: 20},
		{Name: "Writing", Description: "Symbolic written communication.", Branch: "legislative", Prerequisites: []string{"Toolmaking", "Language"}, Cost: 20},
		{Name: "Record Keeping", Description: "Structured logs for governance.", Branch: "legislative", Prerequisites: []string{"Writing"}, Cost: 15},

		// Judicial.
		{Name: "Dispute Resolution", Description: "A formal process for settling conflicts.", Branch: "judicial", Prerequisites: []string{"Diplomacy"}, Cost: 20},
		{Name: "Punishment", Description: "Ability to inflict negative consequences.", Branch: "judicial", Prerequisites: []string{"Dispute Resolution"}, Cost: 25},
		{Name: "Ostracism", Description: "Ability to exile a tribe member.", Branch: "judicial", Prerequisites: []string{"Punishment"}, Cost: 25},

		// Economic.
		{Name: "Barter System", Description: "Member-to-member trading.", Branch: "economic", Prerequisites: []string{"Tribalism"}, Cost: 10},
		{Name: "Property", Description: "Exclusive claim to objects.", Branch: "economic", Prerequisites: []string{"Domestication"}, Cost: 10},
		{Name: "Taxation", Description: "Systematic resource collection.", Branch: "economic", Prerequisites: []string{"Chieftainship", "Centralized Authority", "Property"}, Cost: 20},

		// Infrastructure.
		{Name: "Toolmaking", Description: "Basic tools from stone or wood.", Branch: "infrastructure", Cost: 0},
		{Name: "Forest Gardening", Description: "Staying settled long enough to plant a small garden.", Branch: "infrastructure", Cost: 20},
		{Name: "Domestication", Description: "The taming of animals and plants.", Branch: "infrastructure", Prerequisites: []string{"Tribalism", "Forest Gardening"}, Cost: 10},
		{Name: "Storage", Description: "Keeps food longer.", Branch: "infrastructure", Prerequisites: []string{"Toolmaking", "Domestication"}, Cost: 20},

		// Religious.
		{Name: "Spirituality", Description: "Finding existential meaning in abstract form.", Branch: "religious", Prerequisites: []string{"Language", "Symbolism"}, Cost: 15},
		{Name: "Rituals", Description: "Symbolic gestures to invoke mystery and power.", Branch: "religious", Prerequisites: []string{"Spirituality"}, Cost: 15},
		{Name: "Ceremonies", Description: "Organized rituals for communal worship.", Branch: "religious", Prerequisites: []string{"Rituals"}, Cost: 15},
		{Name: "Sacred Sites", Description: "Dedicated places of worship.", Branch: "religious", Prerequisites: []string{"Ceremonies"}, Cost: 22},
		{Name: "Religion", Description: "Organized spiritual beliefs.", Branch: "religious", Prerequisites: []string{"Ceremonies", "Sacred Sites"}, Cost: 25},

		// Civic representation.
		{Name: "Annual Traditions", Description: "Beginning of holding group gatherings.", Branch: "civic", Prerequisites: []string{"Rituals", "Tribalism"}, Cost: 15},
		{Name: "Tribal Council", Description: "Group representing community interests.", Branch: "civic", Prerequisites: []string{"Hierarchy"}, Cost: 15},
	}

	catalog := make(map[string]Innovation, len(list))
	for _, i := range list {
		catalog[i.Name] = i
	}
	return catalog
}
