package ingest

import (
	"errors"
	"testing"

	"github.com/Lislejoem/social-garden/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestNormalize_RequiresName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := Normalize(types.Extraction{ContactName: name}, nil)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("name %q: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestNormalize_TrimsFields(t *testing.T) {
	raw := types.Extraction{
		ContactName: "  Mia Chen  ",
		Location:    strPtr("  Boston "),
		Preferences: []types.PreferenceCandidate{
			{Category: types.PreferenceAlways, Content: " coffee "},
		},
		FamilyMembers: []types.FamilyMemberCandidate{
			{Name: " June ", Relation: " daughter "},
		},
		Seedlings:          []string{"  ask about the marathon  "},
		InteractionSummary: strPtr(" caught up over lunch "),
	}

	norm, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if norm.ContactName != "Mia Chen" {
		t.Errorf("name = %q, want trimmed", norm.ContactName)
	}
	if norm.Location == nil || *norm.Location != "Boston" {
		t.Errorf("location = %v, want Boston", norm.Location)
	}
	if norm.Preferences[0].Content != "coffee" {
		t.Errorf("preference content = %q, want trimmed", norm.Preferences[0].Content)
	}
	if norm.FamilyMembers[0].Name != "June" || norm.FamilyMembers[0].Relation != "daughter" {
		t.Errorf("family member = %+v, want trimmed", norm.FamilyMembers[0])
	}
	if norm.Seedlings[0] != "ask about the marathon" {
		t.Errorf("seedling = %q, want trimmed", norm.Seedlings[0])
	}
	if norm.InteractionSummary == nil || *norm.InteractionSummary != "caught up over lunch" {
		t.Errorf("interaction summary = %v, want trimmed", norm.InteractionSummary)
	}
}

func TestNormalize_DropsEmptyCandidates(t *testing.T) {
	raw := types.Extraction{
		ContactName: "Mia Chen",
		Preferences: []types.PreferenceCandidate{
			{Category: types.PreferenceAlways, Content: "   "},
			{Category: types.PreferenceNever, Content: "mornings"},
		},
		FamilyMembers: []types.FamilyMemberCandidate{{Name: " ", Relation: "brother"}},
		Seedlings:     []string{"", "  ", "plan a hike"},
	}

	norm, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(norm.Preferences) != 1 || norm.Preferences[0].Content != "mornings" {
		t.Errorf("preferences = %+v, want only the non-empty one", norm.Preferences)
	}
	if len(norm.FamilyMembers) != 0 {
		t.Errorf("family members = %+v, want none", norm.FamilyMembers)
	}
	if len(norm.Seedlings) != 1 {
		t.Errorf("seedlings = %v, want one", norm.Seedlings)
	}
}

func TestNormalize_DedupAgainstExisting(t *testing.T) {
	existing := &types.Contact{
		ID:   "c1",
		Name: "Mia Chen",
		Preferences: []types.Preference{
			{Category: types.PreferenceAlways, Content: "coffee"},
		},
		FamilyMembers: []types.FamilyMember{
			{Name: "June", Relation: "daughter"},
		},
		Seedlings: []types.Seedling{
			{Content: "ask about the marathon", Status: types.SeedlingActive},
			{Content: "borrowed book", Status: types.SeedlingPlanted},
		},
	}

	raw := types.Extraction{
		ContactName: "Mia Chen",
		Preferences: []types.PreferenceCandidate{
			// Case-insensitive duplicate within the same category.
			{Category: types.PreferenceAlways, Content: "Coffee"},
			// Same content in the other category is not a duplicate.
			{Category: types.PreferenceNever, Content: "coffee"},
			{Category: types.PreferenceNever, Content: "mornings"},
		},
		FamilyMembers: []types.FamilyMemberCandidate{
			{Name: "JUNE", Relation: "Daughter"},
			{Name: "June", Relation: "niece"},
		},
		Seedlings: []string{
			"Ask About The Marathon", // duplicate of ACTIVE seedling
			"borrowed book",          // PLANTED seedlings don't block re-adding
		},
	}

	norm, err := Normalize(raw, existing)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(norm.Preferences) != 2 {
		t.Fatalf("preferences = %+v, want 2 (case-insensitive dup dropped)", norm.Preferences)
	}
	for _, p := range norm.Preferences {
		if p.Category != types.PreferenceNever {
			t.Errorf("unexpected surviving preference %+v", p)
		}
	}

	if len(norm.FamilyMembers) != 1 || norm.FamilyMembers[0].Relation != "niece" {
		t.Errorf("family members = %+v, want only the niece entry", norm.FamilyMembers)
	}

	if len(norm.Seedlings) != 1 || norm.Seedlings[0] != "borrowed book" {
		t.Errorf("seedlings = %v, want only the previously planted topic", norm.Seedlings)
	}
}

func TestNormalize_IntraPayloadDedup(t *testing.T) {
	raw := types.Extraction{
		ContactName: "Mia Chen",
		Preferences: []types.PreferenceCandidate{
			{Category: types.PreferenceAlways, Content: "coffee"},
			{Category: types.PreferenceAlways, Content: "COFFEE"},
		},
		Seedlings: []string{"plan a hike", "Plan a Hike"},
	}

	norm, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(norm.Preferences) != 1 {
		t.Errorf("preferences = %+v, want duplicates within the payload collapsed", norm.Preferences)
	}
	if len(norm.Seedlings) != 1 {
		t.Errorf("seedlings = %v, want duplicates within the payload collapsed", norm.Seedlings)
	}
}

func TestNormalize_InteractionTypeDefaultsToNote(t *testing.T) {
	raw := types.Extraction{
		ContactName:        "Mia Chen",
		InteractionSummary: strPtr("ran into her downtown"),
	}
	norm, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !norm.HasInteraction() {
		t.Fatal("expected an interaction")
	}
	if norm.InteractionType != types.InteractionNote {
		t.Errorf("type = %s, want NOTE default", norm.InteractionType)
	}

	callType := types.InteractionCall
	raw.InteractionType = &callType
	norm, err = Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if norm.InteractionType != types.InteractionCall {
		t.Errorf("type = %s, want CALL", norm.InteractionType)
	}
}

func TestNormalize_NoInteractionSynthesized(t *testing.T) {
	callType := types.InteractionCall
	raw := types.Extraction{
		ContactName:     "Mia Chen",
		InteractionType: &callType, // type without summary yields nothing
	}
	norm, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if norm.HasInteraction() {
		t.Error("interaction synthesized without a summary")
	}

	raw.InteractionSummary = strPtr("   ")
	norm, err = Normalize(raw, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if norm.HasInteraction() {
		t.Error("interaction synthesized from a whitespace-only summary")
	}
}

func TestNormalize_Pure(t *testing.T) {
	raw := types.Extraction{
		ContactName: "Mia Chen",
		Preferences: []types.PreferenceCandidate{
			{Category: types.PreferenceAlways, Content: " coffee "},
		},
	}
	existing := &types.Contact{Name: "Mia Chen"}

	if _, err := Normalize(raw, existing); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if raw.Preferences[0].Content != " coffee " {
		t.Error("Normalize mutated its input")
	}
	if existing.Preferences != nil {
		t.Error("Normalize mutated the existing contact")
	}
}
