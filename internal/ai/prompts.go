// Package ai provides AI collaborator integration for relationship fact
// extraction and narrative briefing generation. It includes strict JSON-only
// prompt templates and response parsers that work with Ollama, OpenAI, and
// Anthropic models.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// ExtractionPrompt generates a strict JSON-only prompt for relationship fact
// extraction. The prompt instructs the model to pull contact detail, contact
// preferences, family members, seedlings, and a described interaction out of
// free-text input and return them as a single JSON object.
//
// Parameters:
//   - input: The raw text to extract facts from
//
// Returns:
//   - A prompt string that will elicit JSON-only responses from the model
func ExtractionPrompt(input string) string {
	return fmt.Sprintf(`TASK: Extract relationship facts about ONE person from text.
OUTPUT: ONLY valid JSON. NO markdown. NO code blocks. NO backticks. NO ARRAY - MUST BE OBJECT.

FIELDS:
- contact_name: the person's name (REQUIRED, string)
- is_new_contact: true if the text clearly introduces someone new, otherwise omit
- location: where they live, only if stated
- cadence: how often to keep in touch, ONLY if the text implies it: OFTEN|REGULARLY|SELDOMLY|RARELY
- preferences: things they ALWAYS like or NEVER want, each {"category":"ALWAYS"|"NEVER","content":"..."}
- family_members: each {"name":"...","relation":"..."} (relation like wife, son, sister)
- seedlings: future gift or activity ideas for this person, array of short strings
- interaction_summary: one sentence describing the interaction IF the text describes one
- interaction_type: CALL|TEXT|MEET|VOICE|NOTE, only if interaction_summary is present

VALIDATION (STRICT):
1. Start with { - End with }
2. contact_name must be present and non-empty
3. Omit every field the text gives no evidence for
4. No null values
5. No trailing commas
6. Valid JSON syntax
7. Cadence EXACTLY: OFTEN|REGULARLY|SELDOMLY|RARELY
8. Preference categories EXACTLY: ALWAYS|NEVER

TEXT TO EXTRACT FROM:
%s

RESPOND WITH ONLY THIS JSON STRUCTURE (nothing else):
{"contact_name":"X","location":"...","preferences":[{"category":"ALWAYS","content":"..."}],"family_members":[{"name":"Y","relation":"wife"}],"seedlings":["..."],"interaction_summary":"...","interaction_type":"MEET"}`, input)
}

// BriefingPrompt generates a strict JSON-only prompt for narrative briefing
// generation. The context is serialized to JSON and handed to the model
// unmodified; the model turns it into a short pre-conversation briefing.
//
// Parameters:
//   - bc: The assembled briefing context for one contact
//
// Returns:
//   - A prompt string that will elicit JSON-only responses from the model
func BriefingPrompt(bc *types.BriefingContext) string {
	ctxJSON, err := json.Marshal(bc)
	if err != nil {
		// Marshaling a plain struct cannot fail in practice; keep the
		// prompt usable with whatever we have.
		ctxJSON = []byte(fmt.Sprintf(`{"name":%q}`, bc.Name))
	}

	return fmt.Sprintf(`TASK: Write a short pre-conversation briefing about %s from the structured context below.
OUTPUT: ONLY valid JSON. NO markdown. NO code blocks. NO backticks. NO ARRAY - MUST BE OBJECT.

Provide:
- summary: 2-3 sentence warm synopsis of where the relationship stands
- highlights: array of 2-5 things worth remembering (preferences, family, open threads)
- conversation_starters: array of 2-4 specific openers grounded in the context

RULES:
1. Use ONLY facts from the context. Never invent details.
2. Respect NEVER preferences: never suggest anything they cover.
3. Mention unplanted seedlings as opportunities where natural.
4. If interactions are sparse, say so plainly instead of padding.

CONTEXT:
%s

Return ONLY JSON object, nothing else, no markdown:
{"summary":"...","highlights":["...","..."],"conversation_starters":["...","..."]}`, bc.Name, string(ctxJSON))
}

// buildCadenceList is used by prompt tests to keep the cadence list in the
// prompt aligned with the type definitions.
func buildCadenceList() string {
	parts := make([]string, 0, len(types.ValidCadences))
	for _, c := range types.ValidCadences {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, "|")
}
