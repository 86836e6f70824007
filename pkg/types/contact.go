package types

import "time"

// Contact represents a person the user maintains a relationship with.
// A contact exclusively owns its preferences, interactions, seedlings, and
// family members; child rows are deleted with the contact.
type Contact struct {
	ID        string    `json:"id"`                   // Unique identifier (uuid)
	Name      string    `json:"name"`                 // Display name, never empty
	AvatarURL string    `json:"avatar_url,omitempty"` // Optional avatar reference
	Location  string    `json:"location,omitempty"`   // Optional free-text location
	Birthday  *time.Time `json:"birthday,omitempty"`  // Optional birthday
	Cadence   Cadence   `json:"cadence"`              // Desired contact frequency
	Socials   *Socials  `json:"socials,omitempty"`    // Optional socials bundle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned child collections. Populated by GetContact; list endpoints may
	// leave them nil.
	Preferences   []Preference   `json:"preferences,omitempty"`
	Interactions  []Interaction  `json:"interactions,omitempty"`
	Seedlings     []Seedling     `json:"seedlings,omitempty"`
	FamilyMembers []FamilyMember `json:"family_members,omitempty"`
}

// Socials holds optional social-media handles for a contact.
type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// LastInteractionAt returns the timestamp of the most recent interaction,
// or nil when the contact has never been interacted with. Interactions are
// stored newest-first, but the scan does not rely on that ordering.
func (c *Contact) LastInteractionAt() *time.Time {
	var latest *time.Time
	for i := range c.Interactions {
		t := c.Interactions[i].OccurredAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest
}

// ActiveSeedlings returns the subset of seedlings still in ACTIVE status.
func (c *Contact) ActiveSeedlings() []Seedling {
	var active []Seedling
	for _, s := range c.Seedlings {
		if s.Status == SeedlingActive {
			active = append(active, s)
		}
	}
	return active
}

// Preference is a fact about what a contact always or never wants.
type Preference struct {
	ID        string             `json:"id"`
	ContactID string             `json:"contact_id"`
	Category  PreferenceCategory `json:"category"`
	Content   string             `json:"content"` // Never empty after normalization
	CreatedAt time.Time          `json:"created_at"`
}

// Interaction records a single touchpoint with a contact. Interactions are
// append-only: creation never mutates past rows, and they are never
// deduplicated.
type Interaction struct {
	ID         string          `json:"id"`
	ContactID  string          `json:"contact_id"`
	Type       InteractionType `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Summary    string          `json:"summary"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Seedling is a saved follow-up idea or conversation topic for a contact.
type Seedling struct {
	ID        string         `json:"id"`
	ContactID string         `json:"contact_id"`
	Content   string         `json:"content"`
	Status    SeedlingStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	PlantedAt *time.Time     `json:"planted_at,omitempty"` // Set when status becomes PLANTED
}

// FamilyMember is a named relative of a contact.
type FamilyMember struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Name      string    `json:"name"`
	Relation  string    `json:"relation"` // e.g. "partner", "daughter", "father"
	CreatedAt time.Time `json:"created_at"`
}
