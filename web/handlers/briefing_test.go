package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lislejoem/social-garden/internal/ai"
	"github.com/Lislejoem/social-garden/internal/briefing"
	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/pkg/types"
	"github.com/Lislejoem/social-garden/web/handlers"
)

func newBriefingHandlers(store *fakeStore, narrator *fakeNarrator) *handlers.BriefingHandlers {
	assembler := briefing.NewAssembler(store, health.NewEvaluator())
	return handlers.NewBriefingHandlers(assembler, narrator)
}

func TestGetBriefing(t *testing.T) {
	store := newFakeStore()
	contact := seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	now := time.Now()
	contact.Interactions = []types.Interaction{
		{ID: "i1", ContactID: "c1", Type: types.InteractionCall, OccurredAt: now, Summary: "talked about the move", CreatedAt: now},
	}
	contact.Seedlings = []types.Seedling{
		{ID: "s1", ContactID: "c1", Content: "ask about the marathon", Status: types.SeedlingActive, CreatedAt: now},
	}

	h := newBriefingHandlers(store, &fakeNarrator{briefing: &types.Briefing{
		Summary:              "Mia recently moved to Boston.",
		Highlights:           []string{"training for a marathon"},
		ConversationStarters: []string{"Ask how the marathon training is going"},
	}})

	req := httptest.NewRequest("GET", "/api/contacts/c1/briefing", nil)
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.GetBriefing(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.BriefingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Briefing)
	assert.Equal(t, "Mia recently moved to Boston.", resp.Briefing.Summary)
	require.NotNil(t, resp.Context)
	assert.Equal(t, "Mia Chen", resp.Context.Name)
	assert.Len(t, resp.Context.ActiveSeedlings, 1)
}

func TestGetBriefing_ContactNotFound(t *testing.T) {
	h := newBriefingHandlers(newFakeStore(), &fakeNarrator{})

	req := httptest.NewRequest("GET", "/api/contacts/missing/briefing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.GetBriefing(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestGetBriefing_NarratorFailure(t *testing.T) {
	store := newFakeStore()
	seedContact(t, store, "c1", "Mia Chen", types.CadenceRegularly)
	h := newBriefingHandlers(store, &fakeNarrator{err: ai.ErrCollaborator})

	req := httptest.NewRequest("GET", "/api/contacts/c1/briefing", nil)
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	h.GetBriefing(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "COLLABORATOR_ERROR")
}
