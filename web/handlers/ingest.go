package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Lislejoem/social-garden/internal/ai"
	"github.com/Lislejoem/social-garden/internal/ingest"
	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// IngestHandlers runs the ingestion pipeline: extraction collaborator,
// normalization, then merge engine (preview or commit).
type IngestHandlers struct {
	extractor ai.Extractor
	engine    *ingest.MergeEngine
	hub       *WebSocketHub
}

// NewIngestHandlers creates a new IngestHandlers instance. hub may be nil.
func NewIngestHandlers(extractor ai.Extractor, engine *ingest.MergeEngine, hub *WebSocketHub) *IngestHandlers {
	return &IngestHandlers{
		extractor: extractor,
		engine:    engine,
		hub:       hub,
	}
}

// Ingest handles POST /api/ingest.
func (h *IngestHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid request body", err)
		return
	}

	if strings.TrimSpace(req.RawInput) == "" {
		respondError(w, http.StatusBadRequest, CodeValidation, "raw_input is required", nil)
		return
	}

	extraction, err := h.extractor.Extract(r.Context(), req.RawInput)
	if err != nil {
		respondError(w, http.StatusBadGateway, CodeCollaborator, "extraction failed", err)
		return
	}

	result, err := h.engine.Merge(r.Context(), *extraction, req.ContactID, req.Overrides, req.DryRun)
	if err != nil {
		respondMergeError(w, err)
		return
	}

	if req.DryRun {
		respondJSON(w, http.StatusOK, previewResponse(result))
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(NewEvent(EventIngestCompleted, map[string]interface{}{
			"contact_id":     result.ContactID,
			"is_new_contact": result.IsNewContact,
			"updates":        result.Updates.Total(),
		}))
		h.hub.Broadcast(NewEvent(EventContactUpdated, map[string]string{"contact_id": result.ContactID}))
	}

	respondJSON(w, http.StatusOK, IngestCommitResponse{
		Success:      true,
		ContactID:    result.ContactID,
		IsNewContact: result.IsNewContact,
		Summary:      result.Summary,
		Updates: UpdateCounts{
			Preferences:   result.Updates.Preferences,
			FamilyMembers: result.Updates.FamilyMembers,
			Seedlings:     result.Updates.Seedlings,
			Interaction:   result.Updates.Interaction,
		},
	})
}

func previewResponse(result *ingest.MergeResult) IngestPreviewResponse {
	resp := IngestPreviewResponse{
		Success:      true,
		Preview:      true,
		Extraction:   extractionView(result.Extraction),
		IsNewContact: result.IsNewContact,
	}
	if result.ExistingContact != nil {
		resp.ExistingContact = &ExistingContactView{
			ID:       result.ExistingContact.ID,
			Name:     result.ExistingContact.Name,
			Location: result.ExistingContact.Location,
		}
	}
	return resp
}

// extractionView converts the normalized extraction back into the wire
// schema so the preview shows exactly what a commit would apply.
func extractionView(norm *ingest.NormalizedExtraction) *types.Extraction {
	if norm == nil {
		return nil
	}
	view := &types.Extraction{
		ContactName:        norm.ContactName,
		Location:           norm.Location,
		Cadence:            norm.Cadence,
		Preferences:        norm.Preferences,
		FamilyMembers:      norm.FamilyMembers,
		Seedlings:          norm.Seedlings,
		InteractionSummary: norm.InteractionSummary,
	}
	if norm.HasInteraction() {
		t := norm.InteractionType
		view.InteractionType = &t
	}
	return view
}

// respondMergeError maps merge engine errors to HTTP responses.
func respondMergeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrValidation):
		respondError(w, http.StatusBadRequest, CodeValidation, "merge validation failed", err)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "contact not found", err)
	case errors.Is(err, ingest.ErrPersistence):
		respondError(w, http.StatusInternalServerError, CodePersistence, "merge commit failed", err)
	default:
		respondError(w, http.StatusInternalServerError, CodePersistence, "merge failed", err)
	}
}
