package handlers_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// fakeStore is an in-memory ContactStore for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	contacts map[string]*types.Contact

	// applyErr, when set, is returned by ApplyMerge to simulate a failed
	// transactional commit.
	applyErr error
}

var _ storage.ContactStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{contacts: make(map[string]*types.Contact)}
}

func (s *fakeStore) CreateContact(ctx context.Context, contact *types.Contact) error {
	if contact == nil || contact.ID == "" || strings.TrimSpace(contact.Name) == "" {
		return fmt.Errorf("%w: contact requires an id and a name", storage.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact
	return nil
}

func (s *fakeStore) GetContact(ctx context.Context, id string) (*types.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return contact, nil
}

func (s *fakeStore) FindContactByName(ctx context.Context, name string) (*types.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range s.contacts {
		if strings.EqualFold(contact.Name, name) {
			return contact, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeStore) ListContacts(ctx context.Context, opts storage.ListOptions) (*storage.PaginatedResult[types.Contact], error) {
	opts.Normalize()

	s.mu.Lock()
	var matched []types.Contact
	for _, contact := range s.contacts {
		if opts.Cadence != "" && contact.Cadence != opts.Cadence {
			continue
		}
		if opts.NameContains != "" &&
			!strings.Contains(strings.ToLower(contact.Name), strings.ToLower(opts.NameContains)) {
			continue
		}
		matched = append(matched, *contact)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	return &storage.PaginatedResult[types.Contact]{
		Items:    matched[start:end],
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.Limit,
		HasMore:  end < total,
	}, nil
}

func (s *fakeStore) UpdateContact(ctx context.Context, contact *types.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.contacts[contact.ID]
	if !ok {
		return storage.ErrNotFound
	}
	// Keep the children the caller didn't carry over.
	if contact.Preferences == nil {
		contact.Preferences = existing.Preferences
	}
	if contact.Interactions == nil {
		contact.Interactions = existing.Interactions
	}
	if contact.Seedlings == nil {
		contact.Seedlings = existing.Seedlings
	}
	if contact.FamilyMembers == nil {
		contact.FamilyMembers = existing.FamilyMembers
	}
	s.contacts[contact.ID] = contact
	return nil
}

func (s *fakeStore) DeleteContact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *fakeStore) ApplyMerge(ctx context.Context, req storage.ApplyMergeRequest) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.IsNewContact {
		s.contacts[req.Contact.ID] = req.Contact
	} else {
		existing, ok := s.contacts[req.Contact.ID]
		if !ok {
			return storage.ErrNotFound
		}
		req.Contact.Preferences = existing.Preferences
		req.Contact.Interactions = existing.Interactions
		req.Contact.Seedlings = existing.Seedlings
		req.Contact.FamilyMembers = existing.FamilyMembers
		s.contacts[req.Contact.ID] = req.Contact
	}

	contact := s.contacts[req.Contact.ID]
	contact.Preferences = append(contact.Preferences, req.Preferences...)
	contact.FamilyMembers = append(contact.FamilyMembers, req.FamilyMembers...)
	contact.Seedlings = append(contact.Seedlings, req.Seedlings...)
	if req.Interaction != nil {
		contact.Interactions = append([]types.Interaction{*req.Interaction}, contact.Interactions...)
	}
	return nil
}

func (s *fakeStore) AddInteraction(ctx context.Context, interaction *types.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[interaction.ContactID]
	if !ok {
		return storage.ErrNotFound
	}
	contact.Interactions = append([]types.Interaction{*interaction}, contact.Interactions...)
	return nil
}

func (s *fakeStore) UpdateSeedlingStatus(ctx context.Context, seedlingID string, status types.SeedlingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range s.contacts {
		for i := range contact.Seedlings {
			seedling := &contact.Seedlings[i]
			if seedling.ID != seedlingID {
				continue
			}
			if seedling.Status == status {
				return nil
			}
			if seedling.Status == types.SeedlingPlanted && status == types.SeedlingActive {
				return storage.ErrInvalidTransition
			}
			seedling.Status = status
			if status == types.SeedlingPlanted {
				now := time.Now()
				seedling.PlantedAt = &now
			}
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *fakeStore) DeletePreference(ctx context.Context, preferenceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range s.contacts {
		for i := range contact.Preferences {
			if contact.Preferences[i].ID == preferenceID {
				contact.Preferences = append(contact.Preferences[:i], contact.Preferences[i+1:]...)
				return nil
			}
		}
	}
	return storage.ErrNotFound
}

func (s *fakeStore) DeleteFamilyMember(ctx context.Context, familyMemberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range s.contacts {
		for i := range contact.FamilyMembers {
			if contact.FamilyMembers[i].ID == familyMemberID {
				contact.FamilyMembers = append(contact.FamilyMembers[:i], contact.FamilyMembers[i+1:]...)
				return nil
			}
		}
	}
	return storage.ErrNotFound
}

func (s *fakeStore) Close() error { return nil }

// fakeExtractor returns a canned extraction or error.
type fakeExtractor struct {
	extraction *types.Extraction
	err        error

	lastInput string
}

func (f *fakeExtractor) Extract(ctx context.Context, rawInput string) (*types.Extraction, error) {
	f.lastInput = rawInput
	if f.err != nil {
		return nil, f.err
	}
	return f.extraction, nil
}

// fakeNarrator returns a canned briefing or error.
type fakeNarrator struct {
	briefing *types.Briefing
	err      error
}

func (f *fakeNarrator) Narrate(ctx context.Context, briefingCtx *types.BriefingContext) (*types.Briefing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.briefing, nil
}

func strPtr(s string) *string { return &s }

func cadencePtr(c types.Cadence) *types.Cadence { return &c }
