package medicine

import (
	"context"
	"fmt"
	"strings"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/tx"
	"pharmastock/internal/domain/inventory"
	"pharmastock/pkg/logger"
)

// Service provides business logic for the Medicine catalog.
type Service struct {
	repo      Repository
	batches   inventory.Repository
	txManager tx.Manager
}

// NewService creates a new Medicine service.
func NewService(repo Repository, batches inventory.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		batches:   batches,
		txManager: txManager,
	}
}

// Create adds a medicine to the catalog.
// Fails with DuplicateName when an identically named medicine exists.
func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	// Pre-check for a friendlier error; the unique index on lower(name)
	// remains the authoritative guard against races.
	if existing, err := s.repo.FindByExactName(ctx, m.Name); err == nil && existing != nil {
		return apperror.NewDuplicateName("medicine", m.Name)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, m)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "medicine created", "medicine_id", m.ID, "name", m.Name)
	return nil
}

// CreateWithBatch adds a medicine together with its first purchase batch
// in a single transaction. The duplicate semantics of Create apply to the
// medicine half.
func (s *Service) CreateWithBatch(ctx context.Context, m *Medicine, spec inventory.BatchSpec) (*inventory.Batch, error) {
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByExactName(ctx, m.Name); err == nil && existing != nil {
		return nil, apperror.NewDuplicateName("medicine", m.Name)
	}

	var batch *inventory.Batch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}

		b, err := inventory.NewBatch(m.ID, spec)
		if err != nil {
			return err
		}
		if err := s.batches.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "medicine created with batch",
		"medicine_id", m.ID,
		"name", m.Name,
		"batch_id", batch.ID,
		"quantity", batch.PurchasedQuantity,
	)
	return batch, nil
}

// GetByID retrieves a medicine by id.
func (s *Service) GetByID(ctx context.Context, medicineID id.ID) (*Medicine, error) {
	return s.repo.GetByID(ctx, medicineID)
}

// List returns the catalog, by default only enabled entries.
func (s *Service) List(ctx context.Context, includeDisabled bool) ([]*Medicine, error) {
	return s.repo.List(ctx, includeDisabled)
}

// SearchByName searches the catalog by name.
func (s *Service) SearchByName(ctx context.Context, term string, mode MatchMode) ([]*Medicine, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.NewValidation("search term is required")
	}
	if !mode.IsValid() {
		return nil, apperror.NewValidation("match mode must be startsWith or contains").
			WithDetail("mode", string(mode))
	}
	return s.repo.SearchByName(ctx, term, mode)
}

// FindByExactName resolves a medicine by case-insensitive exact name.
func (s *Service) FindByExactName(ctx context.Context, name string) (*Medicine, error) {
	return s.repo.FindByExactName(ctx, name)
}

// Delete removes a medicine. Deletion is permitted only for disabled
// medicines with no sold history; anything else is a validation failure.
func (s *Service) Delete(ctx context.Context, medicineID id.ID) error {
	m, err := s.repo.GetByID(ctx, medicineID)
	if err != nil {
		return err
	}

	if m.Enabled {
		return apperror.NewValidation("only disabled medicines can be deleted").
			WithDetail("medicine_id", medicineID.String())
	}

	sold, err := s.repo.HasSoldStock(ctx, medicineID)
	if err != nil {
		return err
	}
	if sold {
		return apperror.NewValidation("medicine has sold stock history and cannot be deleted").
			WithDetail("medicine_id", medicineID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, medicineID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "medicine deleted", "medicine_id", medicineID, "name", m.Name)
	return nil
}
