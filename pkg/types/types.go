// Package types defines the core data structures for the Social Garden
// relationship assistant: contacts, their owned child records, transient
// AI extraction payloads, and the derived health classification.
package types

// Cadence represents the desired contact frequency for a relationship.
type Cadence string

// Cadence constants, ordered from most to least frequent.
const (
	// CadenceOften is for close relationships contacted weekly.
	CadenceOften Cadence = "OFTEN"

	// CadenceRegularly is for relationships contacted every few weeks.
	CadenceRegularly Cadence = "REGULARLY"

	// CadenceSeldomly is for relationships contacted every month or two.
	CadenceSeldomly Cadence = "SELDOMLY"

	// CadenceRarely is for relationships contacted a few times a year.
	CadenceRarely Cadence = "RARELY"
)

// DefaultCadence is applied to new contacts when the extraction carries no
// cadence information.
const DefaultCadence = CadenceRegularly

// ValidCadences is a slice of all valid cadence values for validation.
var ValidCadences = []Cadence{
	CadenceOften,
	CadenceRegularly,
	CadenceSeldomly,
	CadenceRarely,
}

// IsValidCadence checks if the given cadence is valid.
func IsValidCadence(c Cadence) bool {
	for _, valid := range ValidCadences {
		if valid == c {
			return true
		}
	}
	return false
}

// PreferenceCategory classifies a preference as something the contact always
// wants or never wants.
type PreferenceCategory string

// Preference category constants.
const (
	PreferenceAlways PreferenceCategory = "ALWAYS"
	PreferenceNever  PreferenceCategory = "NEVER"
)

// ValidPreferenceCategories is a slice of all valid preference categories.
var ValidPreferenceCategories = []PreferenceCategory{
	PreferenceAlways,
	PreferenceNever,
}

// IsValidPreferenceCategory checks if the given category is valid.
func IsValidPreferenceCategory(c PreferenceCategory) bool {
	for _, valid := range ValidPreferenceCategories {
		if valid == c {
			return true
		}
	}
	return false
}

// InteractionType classifies how an interaction with a contact happened.
type InteractionType string

// Interaction type constants.
const (
	InteractionCall InteractionType = "CALL"
	InteractionText InteractionType = "TEXT"
	InteractionMeet InteractionType = "MEET"
	InteractionVoice InteractionType = "VOICE"

	// InteractionNote is the generic classification applied when an
	// extraction carries an interaction summary without a type.
	InteractionNote InteractionType = "NOTE"
)

// ValidInteractionTypes is a slice of all valid interaction types.
var ValidInteractionTypes = []InteractionType{
	InteractionCall,
	InteractionText,
	InteractionMeet,
	InteractionVoice,
	InteractionNote,
}

// IsValidInteractionType checks if the given interaction type is valid.
func IsValidInteractionType(t InteractionType) bool {
	for _, valid := range ValidInteractionTypes {
		if valid == t {
			return true
		}
	}
	return false
}

// SeedlingStatus represents the lifecycle state of a seedling.
// Transitions are monotone: ACTIVE -> PLANTED only, never back.
type SeedlingStatus string

// Seedling status constants.
const (
	// SeedlingActive is a follow-up idea that has not been acted on yet.
	SeedlingActive SeedlingStatus = "ACTIVE"

	// SeedlingPlanted is a follow-up idea that has been resolved.
	SeedlingPlanted SeedlingStatus = "PLANTED"
)

// ValidSeedlingStatuses is a slice of all valid seedling statuses.
var ValidSeedlingStatuses = []SeedlingStatus{
	SeedlingActive,
	SeedlingPlanted,
}

// IsValidSeedlingStatus checks if the given seedling status is valid.
func IsValidSeedlingStatus(s SeedlingStatus) bool {
	for _, valid := range ValidSeedlingStatuses {
		if valid == s {
			return true
		}
	}
	return false
}

// HealthStatus is the derived urgency classification for a relationship.
// It is computed on read from cadence and interaction recency, never stored.
type HealthStatus string

// Health status constants, ordered from most to least favorable.
const (
	// HealthFlourishing means the relationship is within its desired cadence.
	HealthFlourishing HealthStatus = "FLOURISHING"

	// HealthNeedsAttention means contact is due (or the contact has never
	// been interacted with at all).
	HealthNeedsAttention HealthStatus = "NEEDS_ATTENTION"

	// HealthWilting means contact is well past due.
	HealthWilting HealthStatus = "WILTING"
)

// ValidHealthStatuses is a slice of all valid health statuses.
var ValidHealthStatuses = []HealthStatus{
	HealthFlourishing,
	HealthNeedsAttention,
	HealthWilting,
}

// IsValidHealthStatus checks if the given health status is valid.
func IsValidHealthStatus(s HealthStatus) bool {
	for _, valid := range ValidHealthStatuses {
		if valid == s {
			return true
		}
	}
	return false
}

// Urgency ranks a health status for filtering and sorting. Higher values are
// more urgent. Unknown statuses rank lowest.
func (s HealthStatus) Urgency() int {
	switch s {
	case HealthWilting:
		return 2
	case HealthNeedsAttention:
		return 1
	case HealthFlourishing:
		return 0
	default:
		return -1
	}
}
