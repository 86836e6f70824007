// Package ingest reconciles AI-extracted facts about a contact into the
// durable contact record. It has two halves: Normalize, a pure transform
// that validates and deduplicates a raw extraction payload, and MergeEngine,
// which resolves the target contact and applies (or previews) the diff.
package ingest

import (
	"fmt"
	"strings"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// NormalizedExtraction is the fully-validated, deduplicated form of an
// extraction payload. Only normalized extractions reach the merge engine;
// the engine never branches on ad hoc field presence in raw payloads.
type NormalizedExtraction struct {
	ContactName string

	// Location and Cadence are nil when the extraction carried no value.
	Location *string
	Cadence  *types.Cadence

	// Candidate children that survived trimming and deduplication against
	// the existing contact (when one was supplied).
	Preferences   []types.PreferenceCandidate
	FamilyMembers []types.FamilyMemberCandidate
	Seedlings     []string

	// InteractionSummary is nil when no interaction should be recorded.
	// When set, InteractionType is always a valid type (defaulted to NOTE).
	InteractionSummary *string
	InteractionType    types.InteractionType
}

// HasInteraction reports whether the merge should record an interaction.
func (n *NormalizedExtraction) HasInteraction() bool {
	return n.InteractionSummary != nil
}

// Normalize validates and cleans a raw extraction payload before merge.
// All free-text fields are trimmed; candidates that are empty after trimming
// are dropped; candidates duplicating the existing contact's children are
// dropped per the case-insensitive rules of each kind. existing may be nil
// (new-contact path), in which case only trimming and intra-payload
// deduplication apply.
//
// Returns ErrValidation when the contact name is empty after trimming; the
// name is the only mandatory field. The transform is pure: neither input is
// mutated and there are no side effects.
func Normalize(raw types.Extraction, existing *types.Contact) (*NormalizedExtraction, error) {
	name := strings.TrimSpace(raw.ContactName)
	if name == "" {
		return nil, fmt.Errorf("%w: contact name is required", ErrValidation)
	}

	out := &NormalizedExtraction{ContactName: name}

	if raw.Location != nil {
		loc := strings.TrimSpace(*raw.Location)
		if loc != "" {
			out.Location = &loc
		}
	}

	if raw.Cadence != nil && types.IsValidCadence(*raw.Cadence) {
		cadence := *raw.Cadence
		out.Cadence = &cadence
	}

	out.Preferences = normalizePreferences(raw.Preferences, existing)
	out.FamilyMembers = normalizeFamilyMembers(raw.FamilyMembers, existing)
	out.Seedlings = normalizeSeedlings(raw.Seedlings, existing)

	if raw.InteractionSummary != nil {
		summary := strings.TrimSpace(*raw.InteractionSummary)
		if summary != "" {
			out.InteractionSummary = &summary
			out.InteractionType = types.InteractionNote
			if raw.InteractionType != nil && types.IsValidInteractionType(*raw.InteractionType) {
				out.InteractionType = *raw.InteractionType
			}
		}
	}

	return out, nil
}

// preferenceKey builds the case-insensitive dedup key for a preference:
// content within category.
func preferenceKey(category types.PreferenceCategory, content string) string {
	return string(category) + "\x00" + strings.ToLower(content)
}

func normalizePreferences(candidates []types.PreferenceCandidate, existing *types.Contact) []types.PreferenceCandidate {
	seen := make(map[string]bool)
	if existing != nil {
		for _, p := range existing.Preferences {
			seen[preferenceKey(p.Category, p.Content)] = true
		}
	}

	var out []types.PreferenceCandidate
	for _, c := range candidates {
		content := strings.TrimSpace(c.Content)
		if content == "" || !types.IsValidPreferenceCategory(c.Category) {
			continue
		}
		key := preferenceKey(c.Category, content)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, types.PreferenceCandidate{Category: c.Category, Content: content})
	}
	return out
}

func normalizeFamilyMembers(candidates []types.FamilyMemberCandidate, existing *types.Contact) []types.FamilyMemberCandidate {
	key := func(name, relation string) string {
		return strings.ToLower(name) + "\x00" + strings.ToLower(relation)
	}

	seen := make(map[string]bool)
	if existing != nil {
		for _, f := range existing.FamilyMembers {
			seen[key(f.Name, f.Relation)] = true
		}
	}

	var out []types.FamilyMemberCandidate
	for _, c := range candidates {
		name := strings.TrimSpace(c.Name)
		relation := strings.TrimSpace(c.Relation)
		if name == "" {
			continue
		}
		k := key(name, relation)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, types.FamilyMemberCandidate{Name: name, Relation: relation})
	}
	return out
}

// normalizeSeedlings dedups seedling text candidates against existing ACTIVE
// seedlings only; a previously PLANTED seedling may legitimately come up again.
func normalizeSeedlings(candidates []string, existing *types.Contact) []string {
	seen := make(map[string]bool)
	if existing != nil {
		for _, s := range existing.Seedlings {
			if s.Status == types.SeedlingActive {
				seen[strings.ToLower(s.Content)] = true
			}
		}
	}

	var out []string
	for _, c := range candidates {
		content := strings.TrimSpace(c)
		if content == "" {
			continue
		}
		k := strings.ToLower(content)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, content)
	}
	return out
}
