package ingest

import "github.com/Lislejoem/social-garden/pkg/types"

// resolveOverrides applies a human-reviewed override payload over a raw
// extraction, field by field. A field present in overrides replaces the
// extraction's value; an absent (nil) override field leaves the extraction
// untouched. Pointer fields make "present but empty" distinguishable from
// "absent": an override pointing at an empty string clears the field rather
// than preserving it.
//
// Slice fields replace wholesale when non-nil; a reviewer editing the
// preference list supplies the full corrected list, not a delta.
func resolveOverrides(extraction types.Extraction, overrides *types.Extraction) types.Extraction {
	if overrides == nil {
		return extraction
	}

	resolved := extraction

	if overrides.ContactName != "" {
		resolved.ContactName = overrides.ContactName
	}
	if overrides.IsNewContact != nil {
		resolved.IsNewContact = overrides.IsNewContact
	}
	if overrides.Location != nil {
		resolved.Location = overrides.Location
	}
	if overrides.Cadence != nil {
		resolved.Cadence = overrides.Cadence
	}
	if overrides.Preferences != nil {
		resolved.Preferences = overrides.Preferences
	}
	if overrides.FamilyMembers != nil {
		resolved.FamilyMembers = overrides.FamilyMembers
	}
	if overrides.Seedlings != nil {
		resolved.Seedlings = overrides.Seedlings
	}
	if overrides.InteractionSummary != nil {
		resolved.InteractionSummary = overrides.InteractionSummary
	}
	if overrides.InteractionType != nil {
		resolved.InteractionType = overrides.InteractionType
	}

	return resolved
}
