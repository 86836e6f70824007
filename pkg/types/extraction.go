package types

// Extraction is the structured payload an AI collaborator derives from raw
// free-text (or image) input about a contact. It is transient request-scoped
// data: never persisted on its own, and never trusted by the merge engine
// until it has passed through normalization.
//
// Pointer fields distinguish "absent" from "present but empty" so that the
// same type can serve as a field-level override patch: an override field left
// nil keeps the extraction's value, while a non-nil field replaces it even
// when it points at an empty string.
type Extraction struct {
	ContactName  string  `json:"contact_name"`
	IsNewContact *bool   `json:"is_new_contact,omitempty"`
	Location     *string `json:"location,omitempty"`
	Cadence      *Cadence `json:"cadence,omitempty"`

	Preferences   []PreferenceCandidate   `json:"preferences,omitempty"`
	FamilyMembers []FamilyMemberCandidate `json:"family_members,omitempty"`
	Seedlings     []string                `json:"seedlings,omitempty"`

	InteractionSummary *string          `json:"interaction_summary,omitempty"`
	InteractionType    *InteractionType `json:"interaction_type,omitempty"`
}

// PreferenceCandidate is an unvalidated preference proposed by extraction.
type PreferenceCandidate struct {
	Category PreferenceCategory `json:"category"`
	Content  string             `json:"content"`
}

// FamilyMemberCandidate is an unvalidated family member proposed by extraction.
type FamilyMemberCandidate struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// HasInteraction reports whether the extraction carries a non-nil interaction
// summary. Normalization drops summaries that are empty after trimming, so a
// normalized extraction with HasInteraction true always yields one new
// interaction on merge.
func (e *Extraction) HasInteraction() bool {
	return e.InteractionSummary != nil
}
