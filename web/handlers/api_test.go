package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/pkg/types"
	"github.com/Lislejoem/social-garden/web/handlers"
)

func newAPIHandlers(store *fakeStore) *handlers.APIHandlers {
	return handlers.NewAPIHandlers(store, health.NewEvaluator(), nil)
}

func seedContact(t *testing.T, store *fakeStore, id, name string, cadence types.Cadence) *types.Contact {
	t.Helper()
	now := time.Now()
	contact := &types.Contact{
		ID:        id,
		Name:      name,
		Cadence:   cadence,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateContact(context.Background(), contact))
	return contact
}

func TestCreateContact(t *testing.T) {
	store := newFakeStore()
	h := newAPIHandlers(store)

	body := `{"name": "Mia Chen", "location": "Boston", "cadence": "OFTEN"}`
	req := httptest.NewRequest("POST", "/api/contacts", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.CreateContact(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID      string             `json:"id"`
		Name    string             `json:"name"`
		Cadence types.Cadence      `json:"cadence"`
		Health  types.HealthStatus `json:"health"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Mia Chen", resp.Name)
	assert.Equal(t, types.CadenceOften, resp.Cadence)
	assert.Equal(t, types.HealthNeedsAttention, resp.Health)

	stored, err := store.GetContact(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mia Chen", stored.Name)
}

func TestCreateContact_RequiresName(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("POST", "/api/contacts", bytes.NewBufferString(`{"name": "   "}`))
	w := httptest.NewRecorder()

	h.CreateContact(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestCreateContact_DefaultsCadence(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("POST", "/api/contacts", bytes.NewBufferString(`{"name": "Sam"}`))
	w := httptest.NewRecorder()

	h.CreateContact(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), string(types.DefaultCadence))
}

func TestGetContact(t *testing.T) {
	store := newFakeStore()
	contact := seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	now := time.Now()
	contact.Interactions = []types.Interaction{
		{ID: "i1", ContactID: "c1", Type: types.InteractionCall, OccurredAt: now, Summary: "caught up", CreatedAt: now},
	}
	h := newAPIHandlers(store)

	req := httptest.NewRequest("GET", "/api/contacts/c1", nil)
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.GetContact(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Mia Chen"`)
	assert.Contains(t, w.Body.String(), string(types.HealthFlourishing))
}

func TestGetContact_NotFound(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("GET", "/api/contacts/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.GetContact(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestUpdateContact_PartialPatch(t *testing.T) {
	store := newFakeStore()
	contact := seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	contact.Location = "Boston"
	h := newAPIHandlers(store)

	body := `{"cadence": "RARELY"}`
	req := httptest.NewRequest("PATCH", "/api/contacts/c1", bytes.NewBufferString(body))
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.UpdateContact(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	updated, err := store.GetContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, types.CadenceRarely, updated.Cadence)
	// Absent fields stay untouched.
	assert.Equal(t, "Boston", updated.Location)
	assert.Equal(t, "Mia Chen", updated.Name)
}

func TestUpdateContact_RejectsEmptyName(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	h := newAPIHandlers(store)

	req := httptest.NewRequest("PATCH", "/api/contacts/c1", bytes.NewBufferString(`{"name": ""}`))
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.UpdateContact(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateContact_InvalidCadence(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	h := newAPIHandlers(store)

	req := httptest.NewRequest("PATCH", "/api/contacts/c1", bytes.NewBufferString(`{"cadence": "WEEKLY"}`))
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.UpdateContact(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestDeleteContact(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	h := newAPIHandlers(store)

	req := httptest.NewRequest("DELETE", "/api/contacts/c1", nil)
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.DeleteContact(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	_, err := store.GetContact(context.Background(), "c1")
	assert.Error(t, err)
}

func TestListContacts_Pagination(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Alice", types.CadenceOften)
	seedContact(t, store, "c2", "Bob", types.CadenceRegularly)
	seedContact(t, store, "c3", "Carol", types.CadenceRegularly)
	h := newAPIHandlers(store)

	req := httptest.NewRequest("GET", "/api/contacts?page=1&limit=2", nil)
	w := httptest.NewRecorder()

	h.ListContacts(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.ListContactsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Contacts, 2)
	assert.True(t, resp.HasMore)
	assert.Equal(t, "Alice", resp.Contacts[0].Name)
}

func TestListContacts_HealthFilter(t *testing.T) {
	store := newFakeStore()
	fresh := seedContact(t, store, "c1", "Alice", types.CadenceRegularly)
	now := time.Now()
	fresh.Interactions = []types.Interaction{
		{ID: "i1", ContactID: "c1", Type: types.InteractionText, OccurredAt: now, Summary: "hi", CreatedAt: now},
	}
	seedContact(t, store, "c2", "Bob", types.CadenceRegularly)
	h := newAPIHandlers(store)

	req := httptest.NewRequest("GET", "/api/contacts?health=FLOURISHING", nil)
	w := httptest.NewRecorder()

	h.ListContacts(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.ListContactsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "Alice", resp.Contacts[0].Name)
	assert.Equal(t, types.HealthFlourishing, resp.Contacts[0].Health)
}

func TestListContacts_InvalidHealthFilter(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("GET", "/api/contacts?health=GLOWING", nil)
	w := httptest.NewRecorder()

	h.ListContacts(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddInteraction(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	h := newAPIHandlers(store)

	body := `{"type": "call", "summary": "caught up about the move"}`
	req := httptest.NewRequest("POST", "/api/contacts/c1/interactions", bytes.NewBufferString(body))
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.AddInteraction(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	contact, err := store.GetContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, contact.Interactions, 1)
	assert.Equal(t, types.InteractionCall, contact.Interactions[0].Type)
	assert.Equal(t, "caught up about the move", contact.Interactions[0].Summary)
}

func TestAddInteraction_DefaultsToNote(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	h := newAPIHandlers(store)

	req := httptest.NewRequest("POST", "/api/contacts/c1/interactions",
		bytes.NewBufferString(`{"summary": "mentioned a new job"}`))
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.AddInteraction(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	contact, err := store.GetContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, contact.Interactions, 1)
	assert.Equal(t, types.InteractionNote, contact.Interactions[0].Type)
}

func TestAddInteraction_ContactNotFound(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("POST", "/api/contacts/missing/interactions",
		bytes.NewBufferString(`{"summary": "hello"}`))
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.AddInteraction(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlantSeedling(t *testing.T) {
	store := newFakeStore()
	contact := seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	contact.Seedlings = []types.Seedling{
		{ID: "s1", ContactID: "c1", Content: "ask about the marathon", Status: types.SeedlingActive},
	}
	h := newAPIHandlers(store)

	req := httptest.NewRequest("POST", "/api/seedlings/s1/plant", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	h.PlantSeedling(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.SeedlingPlanted, contact.Seedlings[0].Status)
	assert.NotNil(t, contact.Seedlings[0].PlantedAt)
}

func TestPlantSeedling_AlreadyPlanted(t *testing.T) {
	store := newFakeStore()
	contact := seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	planted := time.Now().Add(-time.Hour)
	contact.Seedlings = []types.Seedling{
		{ID: "s1", ContactID: "c1", Content: "done", Status: types.SeedlingPlanted, PlantedAt: &planted},
	}
	h := newAPIHandlers(store)

	req := httptest.NewRequest("POST", "/api/seedlings/s1/plant", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	h.PlantSeedling(w, req)

	// Re-planting is a no-op, not an error.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, planted, *contact.Seedlings[0].PlantedAt)
}

func TestPlantSeedling_NotFound(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("POST", "/api/seedlings/missing/plant", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.PlantSeedling(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	h := newAPIHandlers(newFakeStore())

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	h.HealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
