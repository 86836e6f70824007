// Package handlers provides HTTP handlers and middleware for the Social
// Garden REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// APIHandlers contains the HTTP handlers for contact CRUD, interaction
// logging, and seedling planting.
type APIHandlers struct {
	store     storage.ContactStore
	evaluator *health.Evaluator
	hub       *WebSocketHub
	now       func() time.Time
}

// NewAPIHandlers creates a new APIHandlers instance. hub may be nil when
// no websocket clients need change events.
func NewAPIHandlers(store storage.ContactStore, evaluator *health.Evaluator, hub *WebSocketHub) *APIHandlers {
	return &APIHandlers{
		store:     store,
		evaluator: evaluator,
		hub:       hub,
		now:       time.Now,
	}
}

// ListContacts handles GET /api/contacts - list contacts with pagination,
// filtering, and derived health per row.
func (h *APIHandlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := storage.ListOptions{
		Page:         parseInt(q.Get("page"), 1),
		Limit:        parseInt(q.Get("limit"), 25),
		SortBy:       q.Get("sort_by"),
		SortOrder:    q.Get("sort_order"),
		Cadence:      types.Cadence(strings.ToUpper(q.Get("cadence"))),
		NameContains: q.Get("q"),
	}
	if opts.Cadence != "" && !types.IsValidCadence(opts.Cadence) {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid cadence filter", nil)
		return
	}

	healthFilter := types.HealthStatus(strings.ToUpper(q.Get("health")))
	if healthFilter != "" && !types.IsValidHealthStatus(healthFilter) {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid health filter", nil)
		return
	}

	opts.Normalize()

	result, err := h.store.ListContacts(r.Context(), opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodePersistence, "failed to list contacts", err)
		return
	}

	now := h.now()
	summaries := make([]ContactSummary, 0, len(result.Items))
	for i := range result.Items {
		contact := &result.Items[i]
		status := h.evaluator.EvaluateContact(contact, now)
		// Health is derived, not stored, so the filter runs over the
		// fetched page rather than inside the query.
		if healthFilter != "" && status != healthFilter {
			continue
		}
		summaries = append(summaries, ContactSummary{
			ID:                contact.ID,
			Name:              contact.Name,
			AvatarURL:         contact.AvatarURL,
			Location:          contact.Location,
			Cadence:           contact.Cadence,
			Health:            status,
			LastInteractionAt: contact.LastInteractionAt(),
			CreatedAt:         contact.CreatedAt,
			UpdatedAt:         contact.UpdatedAt,
		})
	}

	respondJSON(w, http.StatusOK, ListContactsResponse{
		Contacts: summaries,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		HasMore:  result.HasMore,
	})
}

// CreateContact handles POST /api/contacts - create a contact directly,
// outside the ingestion pipeline.
func (h *APIHandlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid request body", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, CodeValidation, "contact name is required", nil)
		return
	}

	cadence := req.Cadence
	if cadence == "" {
		cadence = types.DefaultCadence
	}
	if !types.IsValidCadence(cadence) {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid cadence", nil)
		return
	}

	now := h.now()
	contact := &types.Contact{
		ID:        uuid.NewString(),
		Name:      name,
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Location:  strings.TrimSpace(req.Location),
		Birthday:  req.Birthday,
		Cadence:   cadence,
		Socials:   req.Socials,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateContact(r.Context(), contact); err != nil {
		respondStorageError(w, "failed to create contact", err)
		return
	}

	h.broadcastContactUpdated(contact.ID)
	respondJSON(w, http.StatusCreated, ContactResponse{
		Contact: contact,
		Health:  h.evaluator.EvaluateContact(contact, now),
	})
}

// GetContact handles GET /api/contacts/{id} - fetch the full contact
// aggregate with derived health.
func (h *APIHandlers) GetContact(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")

	contact, err := h.store.GetContact(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to get contact", err)
		return
	}

	respondJSON(w, http.StatusOK, ContactResponse{
		Contact: contact,
		Health:  h.evaluator.EvaluateContact(contact, h.now()),
	})
}

// UpdateContact handles PATCH /api/contacts/{id} - partial update of the
// contact's own fields. Absent fields are left untouched.
func (h *APIHandlers) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid request body", err)
		return
	}

	contact, err := h.store.GetContact(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to get contact", err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, CodeValidation, "contact name cannot be empty", nil)
			return
		}
		contact.Name = name
	}
	if req.AvatarURL != nil {
		contact.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Location != nil {
		contact.Location = strings.TrimSpace(*req.Location)
	}
	if req.Birthday != nil {
		contact.Birthday = req.Birthday
	}
	if req.Cadence != nil {
		if !types.IsValidCadence(*req.Cadence) {
			respondError(w, http.StatusBadRequest, CodeValidation, "invalid cadence", nil)
			return
		}
		contact.Cadence = *req.Cadence
	}
	if req.Socials != nil {
		contact.Socials = req.Socials
	}
	contact.UpdatedAt = h.now()

	if err := h.store.UpdateContact(r.Context(), contact); err != nil {
		respondStorageError(w, "failed to update contact", err)
		return
	}

	h.broadcastContactUpdated(contact.ID)
	respondJSON(w, http.StatusOK, ContactResponse{
		Contact: contact,
		Health:  h.evaluator.EvaluateContact(contact, h.now()),
	})
}

// DeleteContact handles DELETE /api/contacts/{id} - remove the contact
// and, by cascade, every owned child row.
func (h *APIHandlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")

	if err := h.store.DeleteContact(r.Context(), id); err != nil {
		respondStorageError(w, "failed to delete contact", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// AddInteraction handles POST /api/contacts/{id}/interactions - manually
// log a single interaction. Interactions are append-only.
func (h *APIHandlers) AddInteraction(w http.ResponseWriter, r *http.Request) {
	contactID := extractID(r, "id")

	var req AddInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid request body", err)
		return
	}

	interactionType := types.InteractionType(strings.ToUpper(string(req.Type)))
	if interactionType == "" {
		interactionType = types.InteractionNote
	}
	if !types.IsValidInteractionType(interactionType) {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid interaction type", nil)
		return
	}

	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		respondError(w, http.StatusBadRequest, CodeValidation, "interaction summary is required", nil)
		return
	}

	now := h.now()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	interaction := &types.Interaction{
		ID:         uuid.NewString(),
		ContactID:  contactID,
		Type:       interactionType,
		OccurredAt: occurredAt,
		Summary:    summary,
		CreatedAt:  now,
	}

	if err := h.store.AddInteraction(r.Context(), interaction); err != nil {
		respondStorageError(w, "failed to add interaction", err)
		return
	}

	h.broadcastContactUpdated(contactID)
	respondJSON(w, http.StatusCreated, interaction)
}

// PlantSeedling handles POST /api/seedlings/{id}/plant - transition a
// seedling to PLANTED. Planting an already-planted seedling succeeds
// without changes.
func (h *APIHandlers) PlantSeedling(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")

	err := h.store.UpdateSeedlingStatus(r.Context(), id, types.SeedlingPlanted)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidTransition) {
			respondError(w, http.StatusConflict, CodeValidation, "seedling cannot leave PLANTED status", err)
			return
		}
		respondStorageError(w, "failed to plant seedling", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  types.SeedlingPlanted,
	})
}

// HealthCheck handles GET /api/health - liveness probe.
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandlers) broadcastContactUpdated(contactID string) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(NewEvent(EventContactUpdated, map[string]string{"contact_id": contactID}))
}

// extractID retrieves a path parameter from the request.
func extractID(r *http.Request, key string) string {
	return r.PathValue(key)
}

// parseInt parses an integer from a string, returning defaultValue if
// parsing fails.
func parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, so just log the failure.
		log.Printf("failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response carrying a stable code.
func respondError(w http.ResponseWriter, statusCode int, code, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}
	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}

// respondStorageError maps storage sentinel errors to HTTP responses.
func respondStorageError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, message, err)
	case errors.Is(err, storage.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, CodeValidation, message, err)
	default:
		respondError(w, http.StatusInternalServerError, CodePersistence, message, err)
	}
}
