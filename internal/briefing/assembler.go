// Package briefing assembles the bounded context bundle handed to the
// narrative collaborator. Assembly is deterministic and touches only
// storage; it never calls the collaborator itself.
package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// Assembler builds briefing contexts from stored contact records.
type Assembler struct {
	store     storage.ContactStore
	evaluator *health.Evaluator
	now       func() time.Time
}

// NewAssembler creates an assembler over the given store and evaluator.
func NewAssembler(store storage.ContactStore, evaluator *health.Evaluator) *Assembler {
	return &Assembler{
		store:     store,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Assemble loads the contact and builds its briefing context. Interactions
// are capped at types.BriefingContextInteractionCap, newest first; older
// interactions are omitted entirely. Storage's ErrNotFound passes through
// unwrapped so callers can map it.
func (a *Assembler) Assemble(ctx context.Context, contactID string) (*types.BriefingContext, error) {
	contact, err := a.store.GetContact(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("loading contact %q: %w", contactID, err)
	}

	bc := &types.BriefingContext{
		ContactID: contact.ID,
		Name:      contact.Name,
		Location:  contact.Location,
		Birthday:  contact.Birthday,
		Cadence:   contact.Cadence,
		Health:    a.evaluator.EvaluateContact(contact, a.now()),
	}

	// GetContact returns interactions newest first.
	interactions := contact.Interactions
	if len(interactions) > types.BriefingContextInteractionCap {
		interactions = interactions[:types.BriefingContextInteractionCap]
	}
	bc.RecentInteractions = append([]types.Interaction(nil), interactions...)

	bc.ActiveSeedlings = contact.ActiveSeedlings()

	for _, p := range contact.Preferences {
		switch p.Category {
		case types.PreferenceAlways:
			bc.AlwaysPreferences = append(bc.AlwaysPreferences, p)
		case types.PreferenceNever:
			bc.NeverPreferences = append(bc.NeverPreferences, p)
		}
	}

	bc.FamilyMembers = append([]types.FamilyMember(nil), contact.FamilyMembers...)

	return bc, nil
}
