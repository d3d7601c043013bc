// Package medicine provides the Medicine catalog.
// A medicine is the named, sellable item; its stock lives in purchase
// batches owned by the inventory package.
package medicine

import (
	"context"
	"strings"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/entity"
)

// Medicine represents one catalog entry.
type Medicine struct {
	entity.Base

	// Name is the display name, unique case-insensitively within the catalog
	Name string `db:"name" json:"name"`

	// Description is free-form usage or composition text
	Description *string `db:"description" json:"description,omitempty"`

	// Manufacturer is the producing company name
	Manufacturer *string `db:"manufacturer" json:"manufacturer,omitempty"`

	// Enabled marks the medicine as sellable; disabled entries are kept for
	// history and can be deleted once they carry no sold batches
	Enabled bool `db:"enabled" json:"enabled"`
}

// New creates a Medicine with required fields. Enabled defaults to true.
func New(name string, description, manufacturer *string) *Medicine {
	return &Medicine{
		Base:         entity.NewBase(),
		Name:         strings.TrimSpace(name),
		Description:  description,
		Manufacturer: manufacturer,
		Enabled:      true,
	}
}

// Validate implements entity.Validatable.
func (m *Medicine) Validate(ctx context.Context) error {
	if strings.TrimSpace(m.Name) == "" {
		return apperror.NewValidation("medicine name is required").
			WithDetail("field", "name")
	}
	return nil
}

// NameEquals reports whether the medicine's name matches s ignoring case.
// This is the matching convention used by the bulk-import fallback.
func (m *Medicine) NameEquals(s string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(s))
}
