package medicine

import (
	"context"

	"pharmastock/internal/core/id"
)

// MatchMode selects how SearchByName compares the term against names.
type MatchMode string

const (
	MatchStartsWith MatchMode = "startsWith"
	MatchContains   MatchMode = "contains"
)

// IsValid reports whether the mode is one of the supported values.
func (m MatchMode) IsValid() bool {
	return m == MatchStartsWith || m == MatchContains
}

// Repository is the persistence collaborator for the Medicine catalog.
type Repository interface {
	// Create inserts a new medicine. Returns DuplicateName when an
	// identically named (case-insensitive) medicine already exists.
	Create(ctx context.Context, m *Medicine) error

	// GetByID retrieves a medicine, NotFound when absent.
	GetByID(ctx context.Context, medicineID id.ID) (*Medicine, error)

	// List returns the catalog ordered by name.
	List(ctx context.Context, includeDisabled bool) ([]*Medicine, error)

	// SearchByName returns medicines whose name matches term per mode,
	// case-insensitively, ordered by name.
	SearchByName(ctx context.Context, term string, mode MatchMode) ([]*Medicine, error)

	// FindByExactName returns the medicine matching name case-insensitively,
	// NotFound when absent.
	FindByExactName(ctx context.Context, name string) (*Medicine, error)

	// HasSoldStock reports whether any batch of the medicine has consumed
	// quantity (purchased > available). Such medicines are never deleted.
	HasSoldStock(ctx context.Context, medicineID id.ID) (bool, error)

	// Delete removes a medicine and its batches.
	Delete(ctx context.Context, medicineID id.ID) error
}
