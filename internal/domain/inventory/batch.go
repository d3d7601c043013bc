// Package inventory provides the stock ledger: purchase batches, FEFO
// batch selection and sale allocation validation.
package inventory

import (
	"context"
	"time"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/entity"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
)

// Batch is one purchased quantity of a medicine, tracked separately from
// other batches of the same medicine with its own expiry and price.
//
// AvailableQuantity only decreases as sales consume it; new stock is always
// a new batch. CreatedAt (from entity.Base) is the purchase timestamp.
type Batch struct {
	entity.Base

	// MedicineID references the owning catalog entry
	MedicineID id.ID `db:"medicine_id" json:"medicineId"`

	// ExpirationDate is a calendar date stored at UTC midnight
	ExpirationDate time.Time `db:"expiration_date" json:"expirationDate"`

	// PurchasedQuantity is immutable after creation
	PurchasedQuantity int `db:"purchased_quantity" json:"purchasedQuantity"`

	// AvailableQuantity is the not-yet-sold portion, 0..PurchasedQuantity
	AvailableQuantity int `db:"available_quantity" json:"availableQuantity"`

	// UnitPrice is the selling price per unit for this batch
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// BatchSpec carries the fields needed to record a new purchase batch.
type BatchSpec struct {
	ExpirationDate time.Time
	Quantity       int
	UnitPrice      types.Money
}

// NewBatch creates a batch from a spec. A new batch starts with
// AvailableQuantity == PurchasedQuantity.
func NewBatch(medicineID id.ID, spec BatchSpec) (*Batch, error) {
	b := &Batch{
		Base:              entity.NewBase(),
		MedicineID:        medicineID,
		ExpirationDate:    types.DateOnly(spec.ExpirationDate),
		PurchasedQuantity: spec.Quantity,
		AvailableQuantity: spec.Quantity,
		UnitPrice:         spec.UnitPrice,
	}
	if err := b.Validate(context.Background()); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate implements entity.Validatable.
func (b *Batch) Validate(ctx context.Context) error {
	if id.IsNil(b.MedicineID) {
		return apperror.NewValidation("medicine is required").
			WithDetail("field", "medicineId")
	}
	if b.PurchasedQuantity <= 0 {
		return apperror.NewValidation("purchased quantity must be positive").
			WithDetail("field", "purchasedQuantity").
			WithDetail("value", b.PurchasedQuantity)
	}
	if b.AvailableQuantity < 0 || b.AvailableQuantity > b.PurchasedQuantity {
		return apperror.NewValidation("available quantity must be between 0 and purchased quantity").
			WithDetail("field", "availableQuantity").
			WithDetail("value", b.AvailableQuantity)
	}
	if b.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if b.ExpirationDate.IsZero() {
		return apperror.NewValidation("expiration date is required").
			WithDetail("field", "expirationDate")
	}
	return nil
}

// IsExhausted reports whether the batch has no stock left to sell.
// Exhausted batches are excluded from sale candidates but kept for audit.
func (b *Batch) IsExhausted() bool {
	return b.AvailableQuantity == 0
}

// RemainingShelfLifeDays returns the whole-day difference between the
// batch expiration date and asOf. Negative means already expired.
func RemainingShelfLifeDays(b *Batch, asOf time.Time) int {
	return types.DaysBetween(asOf, b.ExpirationDate)
}

// ShelfLifeBand classifies remaining shelf life for display severity.
// The bands carry no business enforcement.
type ShelfLifeBand string

const (
	BandExpired  ShelfLifeBand = "expired"  // < 0 days
	BandCritical ShelfLifeBand = "critical" // 0..30 days
	BandWarning  ShelfLifeBand = "warning"  // 31..90 days
	BandNormal   ShelfLifeBand = "normal"   // > 90 days
)

// ClassifyShelfLife maps remaining whole days to a severity band.
func ClassifyShelfLife(days int) ShelfLifeBand {
	switch {
	case days < 0:
		return BandExpired
	case days <= 30:
		return BandCritical
	case days <= 90:
		return BandWarning
	default:
		return BandNormal
	}
}

// ShelfLifeBandAt returns the batch's severity band as of the given day.
func (b *Batch) ShelfLifeBandAt(asOf time.Time) ShelfLifeBand {
	return ClassifyShelfLife(RemainingShelfLifeDays(b, asOf))
}
