// Package entity provides base building blocks shared by all domain entities.
package entity

import (
	"context"
	"time"

	"pharmastock/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains common fields for all persisted entities.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	// CreatedAt is the creation timestamp
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewBase creates a Base with generated ID and current timestamp.
func NewBase() Base {
	return Base{
		ID:        id.New(),
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
}

// Touch increments version (for optimistic locking).
func (b *Base) Touch() {
	b.Version++
}

// SetVersion updates the version number (used by repository after sync).
func (b *Base) SetVersion(v int) {
	b.Version = v
}
