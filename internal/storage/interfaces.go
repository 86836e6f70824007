// Package storage provides composable storage interfaces for the Social
// Garden contact store.
//
// The storage layer is designed with a small, focused interface that can be
// implemented independently per backend (SQLite, Postgres). The one
// transactional operation is ApplyMerge: a single call carrying the full set
// of writes for one ingestion commit, applied all-or-nothing.
package storage

import (
	"context"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// ContactStore provides CRUD operations for contacts and their owned child
// rows, plus the transactional merge commit used by the ingestion pipeline.
type ContactStore interface {
	// CreateContact inserts a new contact (without children).
	// Returns ErrInvalidInput if the contact is nil, has no ID, or has an
	// empty name.
	CreateContact(ctx context.Context, contact *types.Contact) error

	// GetContact retrieves a contact by ID with all child collections
	// populated. Interactions are ordered newest first.
	// Returns ErrNotFound if the contact doesn't exist.
	GetContact(ctx context.Context, id string) (*types.Contact, error)

	// FindContactByName resolves a contact by case-insensitive exact name
	// match. Child collections are populated as in GetContact.
	// Returns ErrNotFound when no contact matches.
	FindContactByName(ctx context.Context, name string) (*types.Contact, error)

	// ListContacts retrieves contacts with pagination and filtering.
	// Child collections are not populated except Interactions, which carry
	// only the most recent row per contact (enough to derive health).
	ListContacts(ctx context.Context, opts ListOptions) (*PaginatedResult[types.Contact], error)

	// UpdateContact modifies an existing contact's own fields (not children).
	// Returns ErrNotFound if the contact doesn't exist.
	UpdateContact(ctx context.Context, contact *types.Contact) error

	// DeleteContact removes a contact and, by cascade, every child row.
	// Returns ErrNotFound if the contact doesn't exist.
	DeleteContact(ctx context.Context, id string) error

	// ApplyMerge applies one merge commit as a single atomic unit: the
	// contact insert-or-update plus all new child rows. On any failure the
	// whole transaction rolls back and no write is visible.
	ApplyMerge(ctx context.Context, req ApplyMergeRequest) error

	// AddInteraction appends a single interaction outside the merge path
	// (manual logging). Returns ErrNotFound if the contact doesn't exist.
	AddInteraction(ctx context.Context, interaction *types.Interaction) error

	// UpdateSeedlingStatus transitions a seedling's status. Transitions are
	// monotone: ACTIVE -> PLANTED is the only legal move, and planting an
	// already-PLANTED seedling is a no-op. Returns ErrInvalidTransition for
	// PLANTED -> ACTIVE and ErrNotFound for unknown seedlings.
	UpdateSeedlingStatus(ctx context.Context, seedlingID string, status types.SeedlingStatus) error

	// DeletePreference removes a single preference row.
	// Returns ErrNotFound if it doesn't exist.
	DeletePreference(ctx context.Context, preferenceID string) error

	// DeleteFamilyMember removes a single family member row.
	// Returns ErrNotFound if it doesn't exist.
	DeleteFamilyMember(ctx context.Context, familyMemberID string) error

	// Close releases any resources held by the store.
	Close() error
}
