package types

import "time"

// BriefingContextInteractionCap is the hard ceiling on interactions included
// in a briefing context. It bounds the payload handed to the narration
// collaborator; older interactions never appear.
const BriefingContextInteractionCap = 20

// BriefingContext is the bounded structured bundle assembled for the
// narrative-briefing collaborator. The assembler hands it over unmodified;
// it contains no prose of its own.
type BriefingContext struct {
	ContactID string     `json:"contact_id"`
	Name      string     `json:"name"`
	Location  string     `json:"location,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Cadence   Cadence    `json:"cadence"`

	Health HealthStatus `json:"health"`

	// RecentInteractions holds at most BriefingContextInteractionCap
	// interactions, ordered newest first.
	RecentInteractions []Interaction `json:"recent_interactions"`

	// ActiveSeedlings holds every seedling still in ACTIVE status.
	ActiveSeedlings []Seedling `json:"active_seedlings"`

	// AlwaysPreferences and NeverPreferences split the contact's
	// preferences by category.
	AlwaysPreferences []Preference `json:"always_preferences"`
	NeverPreferences  []Preference `json:"never_preferences"`

	FamilyMembers []FamilyMember `json:"family_members"`
}

// Briefing is the narrative output produced by the briefing collaborator
// from a BriefingContext.
type Briefing struct {
	Summary              string   `json:"summary"`
	Highlights           []string `json:"highlights"`
	ConversationStarters []string `json:"conversation_starters"`
}
