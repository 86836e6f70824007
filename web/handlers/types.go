package handlers

import (
	"time"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// Stable error codes returned in ErrorResponse.Code. Clients branch on
// these, so they never change even when messages do.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodePersistence  = "PERSISTENCE_ERROR"
	CodeCollaborator = "COLLABORATOR_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeRateLimited  = "RATE_LIMITED"
)

// ErrorResponse is the standard error payload for all API endpoints.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// IngestRequest is the body of POST /api/ingest. ContactID pins the merge
// to a specific contact instead of name resolution. Overrides carries
// human-reviewed field corrections that take precedence over extraction.
type IngestRequest struct {
	RawInput  string            `json:"raw_input"`
	ContactID string            `json:"contact_id,omitempty"`
	DryRun    bool              `json:"dry_run,omitempty"`
	Overrides *types.Extraction `json:"overrides,omitempty"`
}

// UpdateCounts reports how many child rows a commit wrote per kind.
// Zero-valued kinds are omitted.
type UpdateCounts struct {
	Preferences   int  `json:"preferences,omitempty"`
	FamilyMembers int  `json:"familyMembers,omitempty"`
	Seedlings     int  `json:"seedlings,omitempty"`
	Interaction   bool `json:"interaction,omitempty"`
}

// IngestCommitResponse is the response for a committed ingestion.
type IngestCommitResponse struct {
	Success      bool         `json:"success"`
	ContactID    string       `json:"contactId"`
	IsNewContact bool         `json:"isNewContact"`
	Summary      string       `json:"summary"`
	Updates      UpdateCounts `json:"updates"`
}

// ExistingContactView identifies the resolved merge target in a preview.
type ExistingContactView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// IngestPreviewResponse is the response for a dry-run ingestion.
// ExistingContact is null on the new-contact path.
type IngestPreviewResponse struct {
	Success         bool                 `json:"success"`
	Preview         bool                 `json:"preview"`
	Extraction      *types.Extraction    `json:"extraction"`
	ExistingContact *ExistingContactView `json:"existingContact"`
	IsNewContact    bool                 `json:"isNewContact"`
}

// CreateContactRequest is the body of POST /api/contacts.
type CreateContactRequest struct {
	Name      string         `json:"name"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Location  string         `json:"location,omitempty"`
	Birthday  *time.Time     `json:"birthday,omitempty"`
	Cadence   types.Cadence  `json:"cadence,omitempty"`
	Socials   *types.Socials `json:"socials,omitempty"`
}

// UpdateContactRequest is the body of PATCH /api/contacts/{id}. Every field
// is a pointer so an absent field is distinguishable from an explicit
// empty value.
type UpdateContactRequest struct {
	Name      *string        `json:"name,omitempty"`
	AvatarURL *string        `json:"avatar_url,omitempty"`
	Location  *string        `json:"location,omitempty"`
	Birthday  *time.Time     `json:"birthday,omitempty"`
	Cadence   *types.Cadence `json:"cadence,omitempty"`
	Socials   *types.Socials `json:"socials,omitempty"`
}

// AddInteractionRequest is the body of POST /api/contacts/{id}/interactions.
// OccurredAt defaults to the current time when absent.
type AddInteractionRequest struct {
	Type       types.InteractionType `json:"type"`
	Summary    string                `json:"summary"`
	OccurredAt *time.Time            `json:"occurred_at,omitempty"`
}

// ContactSummary is one row of the contact list, carrying the derived
// health classification alongside the stored fields.
type ContactSummary struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	AvatarURL         string             `json:"avatar_url,omitempty"`
	Location          string             `json:"location,omitempty"`
	Cadence           types.Cadence      `json:"cadence"`
	Health            types.HealthStatus `json:"health"`
	LastInteractionAt *time.Time         `json:"last_interaction_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ListContactsResponse is the response for GET /api/contacts.
type ListContactsResponse struct {
	Contacts []ContactSummary `json:"contacts"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasMore  bool             `json:"has_more"`
}

// ContactResponse is the response for single-contact reads and writes:
// the full contact aggregate plus its derived health.
type ContactResponse struct {
	*types.Contact
	Health types.HealthStatus `json:"health"`
}

// BriefingResponse is the response for GET /api/contacts/{id}/briefing.
// Context is the assembled bundle the narration was generated from, so
// clients can render the facts next to the narrative.
type BriefingResponse struct {
	Success  bool                   `json:"success"`
	Briefing *types.Briefing        `json:"briefing"`
	Context  *types.BriefingContext `json:"context"`
}
