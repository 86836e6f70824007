package storage

import (
	"errors"

	"github.com/Lislejoem/social-garden/pkg/types"
)

var (
	// ErrNotFound indicates that the requested contact or child row was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a disallowed seedling status transition
	// (PLANTED seedlings never return to ACTIVE).
	ErrInvalidTransition = errors.New("invalid status transition")
)

// PaginatedResult represents a paginated result set with type safety using generics.
type PaginatedResult[T any] struct {
	// Items is the slice of results for the current page.
	Items []T

	// Total is the total number of items across all pages.
	Total int

	// Page is the current page number (1-indexed).
	Page int

	// PageSize is the number of items per page.
	PageSize int

	// HasMore indicates whether there are more pages available.
	HasMore bool
}

// ListOptions provides pagination and filtering options for contact listing.
type ListOptions struct {
	// Page is the page number to retrieve (1-indexed, default: 1).
	Page int

	// Limit is the number of items per page (default: 25, max: 100).
	Limit int

	// SortBy specifies the field to sort by ("name", "created_at", "updated_at").
	SortBy string

	// SortOrder specifies the sort direction ("asc" or "desc", default: "asc").
	SortOrder string

	// Cadence filters contacts by cadence. Empty string means no filter.
	Cadence types.Cadence

	// NameContains filters to contacts whose name contains this substring,
	// case-insensitively. Empty string means no filter.
	NameContains string
}

// Normalize applies defaults and validates the ListOptions.
func (o *ListOptions) Normalize() {
	// Whitelist validation for SortBy to prevent SQL injection
	allowedSortFields := map[string]bool{
		"name":       true,
		"created_at": true,
		"updated_at": true,
	}

	if !allowedSortFields[o.SortBy] {
		o.SortBy = "name"
	}

	if o.SortOrder != "asc" && o.SortOrder != "desc" {
		o.SortOrder = "asc"
	}

	if o.Page < 1 {
		o.Page = 1
	}

	if o.Limit < 1 {
		o.Limit = 25
	}

	if o.Limit > 100 {
		o.Limit = 100
	}
}

// Offset calculates the offset for SQL queries based on page and limit.
func (o *ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// ApplyMergeRequest is the full set of intended writes for one merge commit:
// a contact insert-or-update plus every new child row. Implementations apply
// the request as a single transaction: either every write succeeds or none
// are visible.
type ApplyMergeRequest struct {
	// Contact is the contact to insert (new-contact path) or update
	// (existing-contact path). UpdatedAt must already carry the commit
	// timestamp; stores persist it as given.
	Contact *types.Contact

	// IsNewContact selects insert vs. update semantics for Contact.
	IsNewContact bool

	// New child rows. Each must carry its own ID and the contact's ID.
	Preferences   []types.Preference
	FamilyMembers []types.FamilyMember
	Seedlings     []types.Seedling
	Interaction   *types.Interaction
}

// ChangeCount returns the total number of rows the request would write,
// excluding the contact row itself.
func (r *ApplyMergeRequest) ChangeCount() int {
	n := len(r.Preferences) + len(r.FamilyMembers) + len(r.Seedlings)
	if r.Interaction != nil {
		n++
	}
	return n
}
