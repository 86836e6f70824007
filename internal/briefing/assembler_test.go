package briefing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// stubStore serves a single contact; every other method is unused here.
type stubStore struct {
	storage.ContactStore
	contact *types.Contact
}

func (s *stubStore) GetContact(_ context.Context, id string) (*types.Contact, error) {
	if s.contact == nil || s.contact.ID != id {
		return nil, storage.ErrNotFound
	}
	return s.contact, nil
}

func newTestAssembler(contact *types.Contact) *Assembler {
	a := NewAssembler(&stubStore{contact: contact}, health.NewEvaluator())
	a.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return a
}

func testContact() *types.Contact {
	now := time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC)
	return &types.Contact{
		ID:       "c1",
		Name:     "Maya Chen",
		Location: "Portland",
		Cadence:  types.CadenceOften,
		Interactions: []types.Interaction{
			{ID: "i1", ContactID: "c1", Type: types.InteractionMeet, Summary: "coffee", OccurredAt: now},
		},
		Preferences: []types.Preference{
			{ID: "p1", ContactID: "c1", Category: types.PreferenceAlways, Content: "oat milk"},
			{ID: "p2", ContactID: "c1", Category: types.PreferenceNever, Content: "surprise parties"},
		},
		Seedlings: []types.Seedling{
			{ID: "s1", ContactID: "c1", Content: "symphony tickets", Status: types.SeedlingActive},
			{ID: "s2", ContactID: "c1", Content: "done already", Status: types.SeedlingPlanted},
		},
		FamilyMembers: []types.FamilyMember{
			{ID: "f1", ContactID: "c1", Name: "Ben", Relation: "husband"},
		},
	}
}

func TestAssemble(t *testing.T) {
	a := newTestAssembler(testContact())

	bc, err := a.Assemble(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if bc.ContactID != "c1" || bc.Name != "Maya Chen" {
		t.Errorf("identity fields wrong: %+v", bc)
	}
	if bc.Health != types.HealthFlourishing {
		t.Errorf("Health = %s, want FLOURISHING (interaction yesterday, OFTEN cadence)", bc.Health)
	}
	if len(bc.RecentInteractions) != 1 {
		t.Errorf("got %d interactions, want 1", len(bc.RecentInteractions))
	}
	if len(bc.ActiveSeedlings) != 1 || bc.ActiveSeedlings[0].ID != "s1" {
		t.Errorf("ActiveSeedlings = %+v, want only s1", bc.ActiveSeedlings)
	}
	if len(bc.AlwaysPreferences) != 1 || bc.AlwaysPreferences[0].Content != "oat milk" {
		t.Errorf("AlwaysPreferences = %+v", bc.AlwaysPreferences)
	}
	if len(bc.NeverPreferences) != 1 || bc.NeverPreferences[0].Content != "surprise parties" {
		t.Errorf("NeverPreferences = %+v", bc.NeverPreferences)
	}
	if len(bc.FamilyMembers) != 1 {
		t.Errorf("got %d family members, want 1", len(bc.FamilyMembers))
	}
}

func TestAssemble_CapsInteractions(t *testing.T) {
	contact := testContact()
	contact.Interactions = nil
	// Newest first, as GetContact returns them.
	base := time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		contact.Interactions = append(contact.Interactions, types.Interaction{
			ID:         fmt.Sprintf("i%d", i),
			ContactID:  "c1",
			Type:       types.InteractionNote,
			Summary:    fmt.Sprintf("note %d", i),
			OccurredAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}

	a := newTestAssembler(contact)
	bc, err := a.Assemble(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(bc.RecentInteractions) != types.BriefingContextInteractionCap {
		t.Fatalf("got %d interactions, want %d", len(bc.RecentInteractions), types.BriefingContextInteractionCap)
	}
	// The newest must survive, the oldest must not.
	if bc.RecentInteractions[0].ID != "i0" {
		t.Errorf("first interaction = %s, want i0 (newest)", bc.RecentInteractions[0].ID)
	}
	for _, in := range bc.RecentInteractions {
		if in.ID == "i24" {
			t.Error("oldest interaction leaked past the cap")
		}
	}
}

func TestAssemble_NotFound(t *testing.T) {
	a := newTestAssembler(nil)

	_, err := a.Assemble(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAssemble_NeverContacted(t *testing.T) {
	contact := testContact()
	contact.Interactions = nil

	a := newTestAssembler(contact)
	bc, err := a.Assemble(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if bc.Health != types.HealthNeedsAttention {
		t.Errorf("Health = %s, want NEEDS_ATTENTION for never-contacted", bc.Health)
	}
	if len(bc.RecentInteractions) != 0 {
		t.Errorf("got %d interactions, want 0", len(bc.RecentInteractions))
	}
}
