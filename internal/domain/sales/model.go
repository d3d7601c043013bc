// Package sales provides sale composition and submission.
// A PendingSale is assembled in memory line by line; on submit it becomes a
// persisted Sale and the referenced batches are consumed.
package sales

import (
	"context"
	"time"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/entity"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
)

// PaymentMode enumerates the supported settlement methods.
type PaymentMode string

const (
	PayCash  PaymentMode = "cash"
	PayCard  PaymentMode = "card"
	PayUPI   PaymentMode = "upi"
	PayWard  PaymentMode = "ward" // ward-use, settled internally
	PayLater PaymentMode = "pay_later"
)

// IsValid reports whether the mode is one of the supported values.
func (m PaymentMode) IsValid() bool {
	switch m {
	case PayCash, PayCard, PayUPI, PayWard, PayLater:
		return true
	}
	return false
}

// Sale is a completed, persisted transaction.
type Sale struct {
	entity.Base

	// CustomerName is an optional free-form label
	CustomerName *string `db:"customer_name" json:"customerName,omitempty"`

	PaymentMode PaymentMode `db:"payment_mode" json:"paymentMode"`

	// PaymentReference is set only for UPI payments
	PaymentReference *string `db:"payment_reference" json:"paymentReference,omitempty"`

	// TotalAmount is the exact (unrounded) transaction total
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Lines, one per batch pick
	Lines []SaleLine `db:"-" json:"lines"`
}

// SaleLine is one batch pick within a sale.
type SaleLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	SaleID id.ID `db:"sale_id" json:"-"`
	LineNo int   `db:"line_no" json:"lineNo"`

	MedicineID      id.ID       `db:"medicine_id" json:"medicineId"`
	BatchID         id.ID       `db:"batch_id" json:"batchId"`
	Quantity        int         `db:"quantity" json:"quantity"`
	UnitPrice       types.Money `db:"unit_price" json:"unitPrice"`
	ExpirationDate  time.Time   `db:"expiration_date" json:"expirationDate"`
	DiscountPercent int         `db:"discount_percent" json:"discountPercent"`
	Amount          types.Money `db:"amount" json:"amount"`
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if !s.PaymentMode.IsValid() {
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "paymentMode").
			WithDetail("value", string(s.PaymentMode))
	}
	if len(s.Lines) == 0 {
		return apperror.NewEmptySale()
	}
	for i, line := range s.Lines {
		if id.IsNil(line.MedicineID) || id.IsNil(line.BatchID) {
			return apperror.NewValidation("medicine and batch are required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewInvalidQuantity(line.Quantity).
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// Repository is the persistence collaborator for sales.
type Repository interface {
	// Create inserts a sale with its lines.
	Create(ctx context.Context, s *Sale) error

	// GetByID retrieves one sale with lines, NotFound when absent.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
}
