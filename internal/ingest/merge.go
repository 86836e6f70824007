package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// MergeUpdates counts the rows a merge added (or would add) per kind.
type MergeUpdates struct {
	Preferences   int  `json:"preferences,omitempty"`
	FamilyMembers int  `json:"family_members,omitempty"`
	Seedlings     int  `json:"seedlings,omitempty"`
	Interaction   bool `json:"interaction,omitempty"`
}

// Total returns the number of child rows counted, including the interaction.
func (u MergeUpdates) Total() int {
	n := u.Preferences + u.FamilyMembers + u.Seedlings
	if u.Interaction {
		n++
	}
	return n
}

// ExistingContactRef identifies the resolved target of a merge preview.
type ExistingContactRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// MergeResult describes the outcome of a merge call. For dry runs it carries
// the computed diff and resolved target without anything having been
// persisted; for commits it reflects what was written.
type MergeResult struct {
	IsNewContact bool
	// ContactID is the persisted contact's ID. Empty on a dry run of the
	// new-contact path, where no contact exists yet.
	ContactID string
	Summary   string
	Updates   MergeUpdates

	// Extraction is the normalized extraction the diff was computed from.
	Extraction *NormalizedExtraction

	// ExistingContact is the resolved target, nil on the new-contact path.
	ExistingContact *ExistingContactRef
}

// MergeEngine reconciles normalized extractions (plus optional user
// overrides) against existing contacts, or creates new ones. The commit path
// issues exactly one transactional ApplyMerge call against the store; the
// dry-run path never writes.
type MergeEngine struct {
	store storage.ContactStore

	// Injectable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// NewMergeEngine creates a merge engine backed by the given store.
func NewMergeEngine(store storage.ContactStore) *MergeEngine {
	return &MergeEngine{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Merge applies (or previews, when dryRun is true) one extraction against the
// contact store.
//
// Field-level overrides take precedence over the extraction before anything
// else happens. The target contact is then resolved: an explicit targetID
// wins (ErrNotFound if it doesn't exist); otherwise a case-insensitive exact
// name match selects the existing-contact path, and a miss selects the
// new-contact path. An extraction asserting is_new_contact skips name
// resolution entirely. The payload is normalized against the resolved target
// so duplicates are dropped, then the diff is computed.
//
// Dry runs are referentially idempotent: identical inputs yield identical
// output and zero mutation, every time. Commits persist the contact and all
// new child rows as one atomic unit and bump the contact's UpdatedAt only
// when at least one change was persisted.
func (e *MergeEngine) Merge(ctx context.Context, extraction types.Extraction, targetID string, overrides *types.Extraction, dryRun bool) (*MergeResult, error) {
	resolved := resolveOverrides(extraction, overrides)

	name := strings.TrimSpace(resolved.ContactName)
	if name == "" {
		return nil, fmt.Errorf("%w: contact name is required", ErrValidation)
	}

	target, err := e.resolveTarget(ctx, name, targetID, resolved.IsNewContact)
	if err != nil {
		return nil, err
	}

	norm, err := Normalize(resolved, target)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{
		IsNewContact: target == nil,
		Extraction:   norm,
		Updates: MergeUpdates{
			Preferences:   len(norm.Preferences),
			FamilyMembers: len(norm.FamilyMembers),
			Seedlings:     len(norm.Seedlings),
			Interaction:   norm.HasInteraction(),
		},
	}
	if target != nil {
		result.ContactID = target.ID
		result.ExistingContact = &ExistingContactRef{
			ID:       target.ID,
			Name:     target.Name,
			Location: target.Location,
		}
	}
	result.Summary = buildSummary(result.IsNewContact, norm.ContactName, result.Updates)

	if dryRun {
		return result, nil
	}

	req, changed := e.buildMergeRequest(norm, target)
	if !changed {
		// Nothing new to write: full duplicate against an existing contact.
		// The commit succeeds with zero counts and no timestamp bump.
		return result, nil
	}

	if err := e.store.ApplyMerge(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: applying merge for %q: %v", ErrPersistence, norm.ContactName, err)
	}

	result.ContactID = req.Contact.ID
	return result, nil
}

// resolveTarget returns the existing contact a merge should apply to, or nil
// for the new-contact path.
func (e *MergeEngine) resolveTarget(ctx context.Context, name, targetID string, isNew *bool) (*types.Contact, error) {
	if targetID != "" {
		target, err := e.store.GetContact(ctx, targetID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("contact %s: %w", targetID, storage.ErrNotFound)
			}
			return nil, fmt.Errorf("%w: resolving contact %s: %v", ErrPersistence, targetID, err)
		}
		return target, nil
	}

	if isNew != nil && *isNew {
		return nil, nil
	}

	target, err := e.store.FindContactByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: resolving contact by name %q: %v", ErrPersistence, name, err)
	}
	return target, nil
}

// buildMergeRequest materializes the diff into store rows. The second return
// reports whether the request writes anything at all; a false means the
// store call should be skipped entirely (existing contact, full duplicate).
func (e *MergeEngine) buildMergeRequest(norm *NormalizedExtraction, target *types.Contact) (storage.ApplyMergeRequest, bool) {
	now := e.now()

	var contact types.Contact
	scalarChanged := false
	if target == nil {
		contact = types.Contact{
			ID:        e.newID(),
			Name:      norm.ContactName,
			Cadence:   types.DefaultCadence,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if norm.Cadence != nil {
			contact.Cadence = *norm.Cadence
		}
		if norm.Location != nil {
			contact.Location = *norm.Location
		}
		scalarChanged = true
	} else {
		contact = *target
		contact.Preferences = nil
		contact.Interactions = nil
		contact.Seedlings = nil
		contact.FamilyMembers = nil
		if norm.Location != nil && *norm.Location != contact.Location {
			contact.Location = *norm.Location
			scalarChanged = true
		}
		if norm.Cadence != nil && *norm.Cadence != contact.Cadence {
			contact.Cadence = *norm.Cadence
			scalarChanged = true
		}
	}

	req := storage.ApplyMergeRequest{
		Contact:      &contact,
		IsNewContact: target == nil,
	}

	for _, p := range norm.Preferences {
		req.Preferences = append(req.Preferences, types.Preference{
			ID:        e.newID(),
			ContactID: contact.ID,
			Category:  p.Category,
			Content:   p.Content,
			CreatedAt: now,
		})
	}
	for _, f := range norm.FamilyMembers {
		req.FamilyMembers = append(req.FamilyMembers, types.FamilyMember{
			ID:        e.newID(),
			ContactID: contact.ID,
			Name:      f.Name,
			Relation:  f.Relation,
			CreatedAt: now,
		})
	}
	for _, s := range norm.Seedlings {
		req.Seedlings = append(req.Seedlings, types.Seedling{
			ID:        e.newID(),
			ContactID: contact.ID,
			Content:   s,
			Status:    types.SeedlingActive,
			CreatedAt: now,
		})
	}
	if norm.HasInteraction() {
		req.Interaction = &types.Interaction{
			ID:         e.newID(),
			ContactID:  contact.ID,
			Type:       norm.InteractionType,
			OccurredAt: now,
			Summary:    *norm.InteractionSummary,
			CreatedAt:  now,
		}
	}

	changed := req.ChangeCount() > 0 || scalarChanged
	if target != nil && changed {
		contact.UpdatedAt = now
	}
	return req, changed
}

// buildSummary renders a short human-readable description of the diff.
func buildSummary(isNew bool, name string, updates MergeUpdates) string {
	var parts []string
	if n := updates.Preferences; n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(n, "preference", "preferences")))
	}
	if n := updates.FamilyMembers; n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(n, "family member", "family members")))
	}
	if n := updates.Seedlings; n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(n, "seedling", "seedlings")))
	}
	if updates.Interaction {
		parts = append(parts, "1 interaction")
	}

	verb := "Updated"
	if isNew {
		verb = "Created"
	}
	if len(parts) == 0 {
		if isNew {
			return fmt.Sprintf("Created contact %q", name)
		}
		return fmt.Sprintf("No new facts for %q", name)
	}
	return fmt.Sprintf("%s contact %q: added %s", verb, name, strings.Join(parts, ", "))
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
