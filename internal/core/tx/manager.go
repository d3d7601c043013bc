// Package tx provides transaction management abstractions.
// Domain services depend on the Manager interface; the pgx-backed
// implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back; otherwise it
	// is committed. Nested calls reuse the transaction already in context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
