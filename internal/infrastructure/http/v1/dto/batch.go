package dto

import (
	"time"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
)

// CreateBatchRequest records a new purchase batch.
// ExpirationDate uses the yyyy-mm-dd calendar form; UnitPrice is a decimal
// string to keep money exact over the wire.
type CreateBatchRequest struct {
	ExpirationDate string `json:"expirationDate" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	UnitPrice      string `json:"unitPrice" binding:"required"`
}

// ToSpec parses and validates the wire fields into a batch spec.
func (r CreateBatchRequest) ToSpec() (inventory.BatchSpec, error) {
	expiration, err := types.ParseCanonicalDate(r.ExpirationDate)
	if err != nil {
		return inventory.BatchSpec{}, apperror.NewValidation("expiration date must be yyyy-mm-dd").
			WithDetail("field", "expirationDate").
			WithDetail("value", r.ExpirationDate)
	}

	price, err := types.NewMoneyFromString(r.UnitPrice)
	if err != nil {
		return inventory.BatchSpec{}, apperror.NewValidation("unit price must be a decimal number").
			WithDetail("field", "unitPrice").
			WithDetail("value", r.UnitPrice)
	}

	return inventory.BatchSpec{
		ExpirationDate: expiration,
		Quantity:       r.Quantity,
		UnitPrice:      price,
	}, nil
}

// BatchResponse is the purchase batch view. ShelfLifeDays and ShelfLifeBand
// are computed against the serving day and carry no enforcement.
type BatchResponse struct {
	ID                string    `json:"id"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	MedicineID        string    `json:"medicineId"`
	ExpirationDate    string    `json:"expirationDate"`
	PurchasedQuantity int       `json:"purchasedQuantity"`
	AvailableQuantity int       `json:"availableQuantity"`
	UnitPrice         string    `json:"unitPrice"`
	Exhausted         bool      `json:"exhausted"`
	ShelfLifeDays     int       `json:"shelfLifeDays"`
	ShelfLifeBand     string    `json:"shelfLifeBand"`
}

// FromBatch creates BatchResponse from the entity as of the given day.
func FromBatch(b *inventory.Batch, asOf time.Time) BatchResponse {
	return BatchResponse{
		ID:                b.ID.String(),
		Version:           b.Version,
		CreatedAt:         b.CreatedAt,
		MedicineID:        b.MedicineID.String(),
		ExpirationDate:    types.FormatDate(b.ExpirationDate),
		PurchasedQuantity: b.PurchasedQuantity,
		AvailableQuantity: b.AvailableQuantity,
		UnitPrice:         b.UnitPrice.StringFixed(types.CurrencyScale),
		Exhausted:         b.IsExhausted(),
		ShelfLifeDays:     inventory.RemainingShelfLifeDays(b, asOf),
		ShelfLifeBand:     string(b.ShelfLifeBandAt(asOf)),
	}
}

// FromBatches maps a FEFO-ordered batch slice, preserving order.
func FromBatches(batches []*inventory.Batch, asOf time.Time) []BatchResponse {
	out := make([]BatchResponse, len(batches))
	for i, b := range batches {
		out[i] = FromBatch(b, asOf)
	}
	return out
}
