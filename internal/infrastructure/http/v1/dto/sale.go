package dto

import (
	"time"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/sales"
)

// SubmitSaleRequest is the composed sale as the terminal sends it.
type SubmitSaleRequest struct {
	CustomerName     string            `json:"customerName"`
	PaymentMode      string            `json:"paymentMode" binding:"required"`
	PaymentReference string            `json:"paymentReference"`
	Lines            []SaleLineRequest `json:"lines" binding:"required"`
}

// SaleLineRequest is one batch pick within the request.
type SaleLineRequest struct {
	MedicineID      string `json:"medicineId" binding:"required"`
	BatchID         string `json:"batchId" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required"`
	UnitPrice       string `json:"unitPrice" binding:"required"`
	ExpirationDate  string `json:"expirationDate" binding:"required"`
	DiscountPercent int    `json:"discountPercent"`
}

// ToPayload parses the wire fields into a submission payload.
func (r SubmitSaleRequest) ToPayload() (*sales.SubmissionPayload, error) {
	payload := &sales.SubmissionPayload{
		CustomerName:     r.CustomerName,
		PaymentMode:      sales.PaymentMode(r.PaymentMode),
		PaymentReference: r.PaymentReference,
		Lines:            make([]sales.PayloadLine, 0, len(r.Lines)),
	}

	for i, line := range r.Lines {
		medicineID, err := id.Parse(line.MedicineID)
		if err != nil {
			return nil, apperror.NewValidation("invalid medicineId format").
				WithDetail("lineNo", i+1)
		}
		batchID, err := id.Parse(line.BatchID)
		if err != nil {
			return nil, apperror.NewValidation("invalid batchId format").
				WithDetail("lineNo", i+1)
		}
		price, err := types.NewMoneyFromString(line.UnitPrice)
		if err != nil {
			return nil, apperror.NewValidation("unit price must be a decimal number").
				WithDetail("lineNo", i+1).
				WithDetail("value", line.UnitPrice)
		}
		expiration, err := types.ParseCanonicalDate(line.ExpirationDate)
		if err != nil {
			return nil, apperror.NewValidation("expiration date must be yyyy-mm-dd").
				WithDetail("lineNo", i+1).
				WithDetail("value", line.ExpirationDate)
		}

		payload.Lines = append(payload.Lines, sales.PayloadLine{
			MedicineID:      medicineID,
			BatchID:         batchID,
			Quantity:        line.Quantity,
			UnitPrice:       price,
			ExpirationDate:  expiration,
			DiscountPercent: line.DiscountPercent,
		})
	}
	return payload, nil
}

// SaleLineResponse is one persisted line. Amount is exact; AmountRounded is
// the half-up currency presentation.
type SaleLineResponse struct {
	LineID          string `json:"lineId"`
	LineNo          int    `json:"lineNo"`
	MedicineID      string `json:"medicineId"`
	BatchID         string `json:"batchId"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unitPrice"`
	ExpirationDate  string `json:"expirationDate"`
	DiscountPercent int    `json:"discountPercent"`
	Amount          string `json:"amount"`
	AmountRounded   string `json:"amountRounded"`
}

// SaleResponse is the persisted sale view.
type SaleResponse struct {
	ID               string             `json:"id"`
	CreatedAt        time.Time          `json:"createdAt"`
	CustomerName     *string            `json:"customerName,omitempty"`
	PaymentMode      string             `json:"paymentMode"`
	PaymentReference *string            `json:"paymentReference,omitempty"`
	TotalAmount      string             `json:"totalAmount"`
	TotalRounded     string             `json:"totalRounded"`
	Lines            []SaleLineResponse `json:"lines"`
}

// FromSale creates SaleResponse from the entity.
func FromSale(s *sales.Sale) SaleResponse {
	lines := make([]SaleLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = SaleLineResponse{
			LineID:          l.LineID.String(),
			LineNo:          l.LineNo,
			MedicineID:      l.MedicineID.String(),
			BatchID:         l.BatchID.String(),
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice.String(),
			ExpirationDate:  types.FormatDate(l.ExpirationDate),
			DiscountPercent: l.DiscountPercent,
			Amount:          l.Amount.String(),
			AmountRounded:   types.RoundCurrency(l.Amount).StringFixed(types.CurrencyScale),
		}
	}

	return SaleResponse{
		ID:               s.ID.String(),
		CreatedAt:        s.CreatedAt,
		CustomerName:     s.CustomerName,
		PaymentMode:      string(s.PaymentMode),
		PaymentReference: s.PaymentReference,
		TotalAmount:      s.TotalAmount.String(),
		TotalRounded:     types.RoundCurrency(s.TotalAmount).StringFixed(types.CurrencyScale),
		Lines:            lines,
	}
}
