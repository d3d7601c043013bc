package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSaleRepo struct {
	created *Sale
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *Sale) error {
	r.created = s
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	if r.created != nil && r.created.ID == saleID {
		return r.created, nil
	}
	return nil, apperror.NewNotFound("sale", saleID.String())
}

// fakeBatchRepo tracks available stock per batch and applies the same
// conditional-decrement contract as the real store.
type fakeBatchRepo struct {
	available map[id.ID]int
	consumed  map[id.ID]int
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{
		available: make(map[id.ID]int),
		consumed:  make(map[id.ID]int),
	}
}

func (r *fakeBatchRepo) Create(ctx context.Context, b *inventory.Batch) error { return nil }

func (r *fakeBatchRepo) GetByID(ctx context.Context, batchID id.ID) (*inventory.Batch, error) {
	return nil, apperror.NewNotFound("batch", batchID.String())
}

func (r *fakeBatchRepo) ListByMedicine(ctx context.Context, medicineID id.ID) ([]*inventory.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Consume(ctx context.Context, batchID id.ID, qty int) error {
	available, ok := r.available[batchID]
	if !ok {
		return apperror.NewNotFound("batch", batchID.String())
	}
	if available < qty {
		return apperror.NewInsufficientStock(batchID.String(), qty, available)
	}
	r.available[batchID] = available - qty
	r.consumed[batchID] += qty
	return nil
}

func (r *fakeBatchRepo) ListStockRows(ctx context.Context) ([]inventory.StockRow, error) {
	return nil, nil
}

func payloadLine(batchID id.ID, qty, discount int, price string) PayloadLine {
	exp, _ := types.ParseCanonicalDate("2027-01-01")
	return PayloadLine{
		MedicineID:      id.New(),
		BatchID:         batchID,
		Quantity:        qty,
		UnitPrice:       types.MustMoney(price),
		ExpirationDate:  exp,
		DiscountPercent: discount,
	}
}

func TestSubmit(t *testing.T) {
	batchID := id.New()
	batches := newFakeBatchRepo()
	batches.available[batchID] = 10

	repo := &fakeSaleRepo{}
	svc := NewService(repo, batches, fakeTxManager{})

	sale, err := svc.Submit(context.Background(), &SubmissionPayload{
		PaymentMode: PayCash,
		Lines: []PayloadLine{
			payloadLine(batchID, 3, 10, "9.99"),
			payloadLine(batchID, 1, 0, "9.99"),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	// Totals are recomputed server-side with exact arithmetic.
	assert.True(t, sale.TotalAmount.Equal(types.MustMoney("36.963")), "got %s", sale.TotalAmount)

	// Two lines drawing from one batch decrement it once, with the sum.
	assert.Equal(t, 4, batches.consumed[batchID])
	assert.Equal(t, 6, batches.available[batchID])

	assert.Len(t, sale.Lines, 2)
	assert.Equal(t, 1, sale.Lines[0].LineNo)
	assert.Equal(t, 2, sale.Lines[1].LineNo)
}

func TestSubmit_EmptyPayload(t *testing.T) {
	svc := NewService(&fakeSaleRepo{}, newFakeBatchRepo(), fakeTxManager{})

	_, err := svc.Submit(context.Background(), nil)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptySale))

	_, err = svc.Submit(context.Background(), &SubmissionPayload{PaymentMode: PayCash})
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptySale))
}

func TestSubmit_ConcurrentDepletionRollsBack(t *testing.T) {
	// The payload was composed against more stock than is left; the
	// authoritative check fails and the sale must not be persisted.
	batchID := id.New()
	batches := newFakeBatchRepo()
	batches.available[batchID] = 2

	repo := &fakeSaleRepo{}
	svc := NewService(repo, batches, fakeTxManager{})

	_, err := svc.Submit(context.Background(), &SubmissionPayload{
		PaymentMode: PayCash,
		Lines:       []PayloadLine{payloadLine(batchID, 5, 0, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Nil(t, repo.created)
}

func TestSubmit_ClampsDiscount(t *testing.T) {
	batchID := id.New()
	batches := newFakeBatchRepo()
	batches.available[batchID] = 10

	svc := NewService(&fakeSaleRepo{}, batches, fakeTxManager{})

	sale, err := svc.Submit(context.Background(), &SubmissionPayload{
		PaymentMode: PayCash,
		Lines:       []PayloadLine{payloadLine(batchID, 2, 150, "10.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, sale.Lines[0].DiscountPercent)
	assert.True(t, sale.TotalAmount.IsZero())
}

func TestSubmit_InvalidPaymentMode(t *testing.T) {
	batchID := id.New()
	batches := newFakeBatchRepo()
	batches.available[batchID] = 10

	svc := NewService(&fakeSaleRepo{}, batches, fakeTxManager{})

	_, err := svc.Submit(context.Background(), &SubmissionPayload{
		PaymentMode: PaymentMode("barter"),
		Lines:       []PayloadLine{payloadLine(batchID, 1, 0, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}
