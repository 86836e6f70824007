package ai

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// extractionResponse is the wire shape of an extraction reply. Enum fields
// are plain strings so one bad value can be dropped without discarding the
// rest of the payload.
type extractionResponse struct {
	ContactName  string  `json:"contact_name"`
	IsNewContact *bool   `json:"is_new_contact"`
	Location     *string `json:"location"`
	Cadence      *string `json:"cadence"`

	Preferences []struct {
		Category string `json:"category"`
		Content  string `json:"content"`
	} `json:"preferences"`
	FamilyMembers []struct {
		Name     string `json:"name"`
		Relation string `json:"relation"`
	} `json:"family_members"`
	Seedlings []string `json:"seedlings"`

	InteractionSummary *string `json:"interaction_summary"`
	InteractionType    *string `json:"interaction_type"`
}

// briefingResponse is the wire shape of a narration reply.
type briefingResponse struct {
	Summary              string   `json:"summary"`
	Highlights           []string `json:"highlights"`
	ConversationStarters []string `json:"conversation_starters"`
}

// extractJSON extracts the first valid JSON object from a string that may
// contain extra text. This handles cases where models add explanations
// before/after the JSON despite instructions.
func extractJSON(text string) string {
	// Remove common markdown code block markers
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text // No JSON found, return as-is and let parser fail
	}

	// Find the matching closing brace
	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		// Only count braces outside of strings
		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text // No complete JSON found, return as-is
}

// ParseExtractionResponse parses extraction JSON and filters out invalid
// entries. Unknown cadences, preference categories, or interaction types are
// dropped rather than failing the entire payload. Only returns an error if
// the JSON itself is malformed.
//
// Parameters:
//   - jsonStr: JSON string returned by the model (may contain extra text)
//
// Returns:
//   - An Extraction carrying only the fields that survived filtering
//   - Error only if the JSON itself is malformed
func ParseExtractionResponse(jsonStr string) (*types.Extraction, error) {
	cleanJSON := extractJSON(jsonStr)

	var resp extractionResponse
	if err := json.Unmarshal([]byte(cleanJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	out := &types.Extraction{
		ContactName:        resp.ContactName,
		IsNewContact:       resp.IsNewContact,
		Location:           resp.Location,
		Seedlings:          resp.Seedlings,
		InteractionSummary: resp.InteractionSummary,
	}

	if resp.Cadence != nil {
		cadence := types.Cadence(strings.ToUpper(strings.TrimSpace(*resp.Cadence)))
		if types.IsValidCadence(cadence) {
			out.Cadence = &cadence
		} else {
			log.Printf("response_parser: dropping unknown cadence %q", *resp.Cadence)
		}
	}

	for _, p := range resp.Preferences {
		category := types.PreferenceCategory(strings.ToUpper(strings.TrimSpace(p.Category)))
		if !types.IsValidPreferenceCategory(category) {
			log.Printf("response_parser: dropping preference %q with unknown category %q", p.Content, p.Category)
			continue
		}
		out.Preferences = append(out.Preferences, types.PreferenceCandidate{
			Category: category,
			Content:  p.Content,
		})
	}

	for _, fm := range resp.FamilyMembers {
		out.FamilyMembers = append(out.FamilyMembers, types.FamilyMemberCandidate{
			Name:     fm.Name,
			Relation: fm.Relation,
		})
	}

	if resp.InteractionType != nil {
		it := types.InteractionType(strings.ToUpper(strings.TrimSpace(*resp.InteractionType)))
		if types.IsValidInteractionType(it) {
			out.InteractionType = &it
		} else {
			log.Printf("response_parser: dropping unknown interaction type %q", *resp.InteractionType)
		}
	}

	return out, nil
}

// ParseBriefingResponse parses narrative briefing JSON. It returns an error
// if the JSON is malformed or the summary is missing.
//
// Parameters:
//   - jsonStr: JSON string returned by the model
//
// Returns:
//   - Briefing object
//   - Error if parsing fails
func ParseBriefingResponse(jsonStr string) (*types.Briefing, error) {
	cleanJSON := extractJSON(jsonStr)

	var resp briefingResponse
	if err := json.Unmarshal([]byte(cleanJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse briefing JSON: %w", err)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return nil, fmt.Errorf("briefing response missing summary")
	}

	return &types.Briefing{
		Summary:              resp.Summary,
		Highlights:           resp.Highlights,
		ConversationStarters: resp.ConversationStarters,
	}, nil
}
