package inventory

import (
	"context"
	"time"

	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
)

// Repository is the persistence collaborator for batches.
type Repository interface {
	// Create inserts a new batch.
	Create(ctx context.Context, b *Batch) error

	// GetByID retrieves one batch, NotFound when absent.
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)

	// ListByMedicine returns all batches of a medicine, exhausted included;
	// callers order and filter via SelectBatches.
	ListByMedicine(ctx context.Context, medicineID id.ID) ([]*Batch, error)

	// Consume decrements available quantity by qty if and only if the live
	// available quantity still covers it; otherwise InsufficientStock with
	// the current ceiling. This is the authoritative check at submit time.
	Consume(ctx context.Context, batchID id.ID, qty int) error

	// ListStockRows returns the flattened per-batch export view.
	ListStockRows(ctx context.Context) ([]StockRow, error)
}

// StockRow is one line of the flattened stock export.
type StockRow struct {
	MedicineName      string      `db:"medicine_name"`
	Enabled           bool        `db:"enabled"`
	ExpirationDate    time.Time   `db:"expiration_date"`
	AvailableQuantity int         `db:"available_quantity"`
	UnitPrice         types.Money `db:"unit_price"`
}
