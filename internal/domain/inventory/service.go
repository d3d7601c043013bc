package inventory

import (
	"context"

	"pharmastock/internal/core/id"
	"pharmastock/internal/core/tx"
	"pharmastock/pkg/logger"
)

// Service provides stock ledger operations on top of the repository.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// FetchBatches returns a medicine's batches in FEFO order. The read is
// always live; sale composition re-fetches before every validation because
// another terminal may have sold from the same batch.
func (s *Service) FetchBatches(ctx context.Context, medicineID id.ID, includeExhausted bool) ([]*Batch, error) {
	batches, err := s.repo.ListByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	return SelectBatches(batches, includeExhausted), nil
}

// CreateBatch records a new purchase batch for a medicine. The caller is
// expected to have resolved the medicine first.
func (s *Service) CreateBatch(ctx context.Context, medicineID id.ID, spec BatchSpec) (*Batch, error) {
	b, err := NewBatch(medicineID, spec)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "batch created",
		"batch_id", b.ID,
		"medicine_id", medicineID,
		"quantity", b.PurchasedQuantity,
		"expiration", b.ExpirationDate.Format("2006-01-02"),
	)
	return b, nil
}

// GetBatch retrieves one batch by id.
func (s *Service) GetBatch(ctx context.Context, batchID id.ID) (*Batch, error) {
	return s.repo.GetByID(ctx, batchID)
}

// StockRows returns the flattened export view of all batches.
func (s *Service) StockRows(ctx context.Context) ([]StockRow, error) {
	return s.repo.ListStockRows(ctx)
}
