package handlers

import (
	"net/http"

	"github.com/Lislejoem/social-garden/internal/ai"
	"github.com/Lislejoem/social-garden/internal/briefing"
)

// BriefingHandlers serves narrative briefings: context assembly followed by
// the narration collaborator.
type BriefingHandlers struct {
	assembler *briefing.Assembler
	narrator  ai.Narrator
}

// NewBriefingHandlers creates a new BriefingHandlers instance.
func NewBriefingHandlers(assembler *briefing.Assembler, narrator ai.Narrator) *BriefingHandlers {
	return &BriefingHandlers{
		assembler: assembler,
		narrator:  narrator,
	}
}

// GetBriefing handles GET /api/contacts/{id}/briefing.
func (h *BriefingHandlers) GetBriefing(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")

	briefingCtx, err := h.assembler.Assemble(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to assemble briefing context", err)
		return
	}

	narrative, err := h.narrator.Narrate(r.Context(), briefingCtx)
	if err != nil {
		respondError(w, http.StatusBadGateway, CodeCollaborator, "briefing narration failed", err)
		return
	}

	respondJSON(w, http.StatusOK, BriefingResponse{
		Success:  true,
		Briefing: narrative,
		Context:  briefingCtx,
	})
}
