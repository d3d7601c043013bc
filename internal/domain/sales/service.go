package sales

import (
	"context"
	"fmt"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/entity"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/tx"
	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
	"pharmastock/pkg/logger"
)

// Service submits composed sales to the persistence collaborator.
type Service struct {
	repo      Repository
	batches   inventory.Repository
	txManager tx.Manager
}

// NewService creates a new sales service.
func NewService(repo Repository, batches inventory.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		batches:   batches,
		txManager: txManager,
	}
}

// Submit persists a composed sale.
//
// Client-side validation is provisional: the conditional batch decrement
// inside the transaction is the authoritative stock check, so a batch
// concurrently depleted by another terminal surfaces as InsufficientStock
// and nothing is committed. The service never retries; the caller keeps its
// pending sale and decides what to do.
func (s *Service) Submit(ctx context.Context, payload *SubmissionPayload) (*Sale, error) {
	if payload == nil || len(payload.Lines) == 0 {
		return nil, apperror.NewEmptySale()
	}

	sale := &Sale{
		Base:        entity.NewBase(),
		PaymentMode: payload.PaymentMode,
	}
	if payload.CustomerName != "" {
		name := payload.CustomerName
		sale.CustomerName = &name
	}
	if payload.PaymentMode == PayUPI && payload.PaymentReference != "" {
		ref := payload.PaymentReference
		sale.PaymentReference = &ref
	}

	total := types.ZeroMoney()
	for i, pl := range payload.Lines {
		line := SaleLine{
			LineID:          id.New(),
			SaleID:          sale.ID,
			LineNo:          i + 1,
			MedicineID:      pl.MedicineID,
			BatchID:         pl.BatchID,
			Quantity:        pl.Quantity,
			UnitPrice:       pl.UnitPrice,
			ExpirationDate:  pl.ExpirationDate,
			DiscountPercent: clampDiscount(pl.DiscountPercent),
		}
		line.Amount = LineTotal(PendingLine{
			Quantity:        line.Quantity,
			DiscountPercent: line.DiscountPercent,
			UnitPrice:       line.UnitPrice,
		})
		total = total.Add(line.Amount)
		sale.Lines = append(sale.Lines, line)
	}
	sale.TotalAmount = total

	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	// Several lines may draw from the same batch; consume the summed
	// quantity once per batch so the conditional check sees the full claim.
	perBatch := make(map[string]int)
	order := make([]SaleLine, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		key := line.BatchID.String()
		if _, seen := perBatch[key]; !seen {
			order = append(order, line)
		}
		perBatch[key] += line.Quantity
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range order {
			qty := perBatch[line.BatchID.String()]
			if err := s.batches.Consume(ctx, line.BatchID, qty); err != nil {
				return err
			}
		}
		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale submitted",
		"sale_id", sale.ID,
		"lines", len(sale.Lines),
		"payment_mode", sale.PaymentMode,
		"total", types.RoundCurrency(sale.TotalAmount).String(),
	)
	return sale, nil
}

// Get retrieves a persisted sale.
func (s *Service) Get(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}
