package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
)

// PendingLine is one not-yet-submitted batch pick.
type PendingLine struct {
	MedicineID      id.ID
	BatchID         id.ID
	Quantity        int
	DiscountPercent int

	// Snapshot of the batch at pick time, carried into the payload
	UnitPrice      types.Money
	ExpirationDate time.Time
}

// PendingSale is the in-progress transaction an operator is assembling.
// It exists only in memory; all composition is synchronous. Mutating
// operations either fully apply or leave the sale untouched, so the state
// after any failure is exactly the state before the call.
type PendingSale struct {
	CustomerName     string
	PaymentMode      PaymentMode
	PaymentReference string

	Lines []PendingLine
}

// NewPendingSale starts an empty pending sale.
func NewPendingSale(mode PaymentMode) *PendingSale {
	return &PendingSale{
		PaymentMode: mode,
		Lines:       make([]PendingLine, 0),
	}
}

// AllocatedForBatch sums the quantity all current lines claim from one
// batch, excluding the line at excludeIndex (pass -1 to exclude none).
// This is the "already allocated" input to allocation validation: several
// lines of the same sale may point at the same batch.
func (p *PendingSale) AllocatedForBatch(batchID id.ID, excludeIndex int) int {
	total := 0
	for i, line := range p.Lines {
		if i == excludeIndex {
			continue
		}
		if line.BatchID == batchID {
			total += line.Quantity
		}
	}
	return total
}

// AddLines validates and appends candidate lines atomically.
//
// Every candidate is re-validated against the supplied live batches plus the
// sum of existing and preceding-candidate allocations for its batch. If any
// candidate fails, nothing is added and the validator's errors are surfaced
// per offending batch.
func (p *PendingSale) AddLines(batches []*inventory.Batch, candidates []PendingLine) error {
	byID := make(map[id.ID]*inventory.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	// Running allocation per batch: existing lines plus accepted candidates.
	claimed := make(map[id.ID]int)
	for _, line := range p.Lines {
		claimed[line.BatchID] += line.Quantity
	}

	var failures []*apperror.AppError
	for _, cand := range candidates {
		batch, ok := byID[cand.BatchID]
		if !ok {
			failures = append(failures, apperror.NewNotFound("batch", cand.BatchID.String()))
			continue
		}
		if err := inventory.ValidateAllocation(batch, cand.Quantity, claimed[cand.BatchID]); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				failures = append(failures, appErr)
			} else {
				failures = append(failures, apperror.NewValidation(err.Error()))
			}
			continue
		}
		claimed[cand.BatchID] += cand.Quantity
	}

	if len(failures) > 0 {
		return joinLineFailures(failures)
	}

	for _, cand := range candidates {
		batch := byID[cand.BatchID]
		added := cand
		added.DiscountPercent = clampDiscount(cand.DiscountPercent)
		added.UnitPrice = batch.UnitPrice
		added.ExpirationDate = batch.ExpirationDate
		p.Lines = append(p.Lines, added)
	}
	return nil
}

// RemoveLine drops one line. Removal only frees capacity, so no
// re-validation of the remaining lines is needed.
func (p *PendingSale) RemoveLine(index int) error {
	if index < 0 || index >= len(p.Lines) {
		return apperror.NewNotFound("sale line", index)
	}
	p.Lines = append(p.Lines[:index], p.Lines[index+1:]...)
	return nil
}

// UpdateLineQuantity revalidates and replaces the quantity of one line
// against the supplied live batch. The line's own current claim is excluded
// from the already-allocated sum, so shrinking a line always succeeds and
// growing it is checked against what the other lines leave free.
func (p *PendingSale) UpdateLineQuantity(batch *inventory.Batch, index, quantity int) error {
	if index < 0 || index >= len(p.Lines) {
		return apperror.NewNotFound("sale line", index)
	}
	line := &p.Lines[index]
	if batch == nil || batch.ID != line.BatchID {
		return apperror.NewNotFound("batch", line.BatchID.String())
	}
	already := p.AllocatedForBatch(line.BatchID, index)
	if err := inventory.ValidateAllocation(batch, quantity, already); err != nil {
		return err
	}
	line.Quantity = quantity
	return nil
}

// SetDiscount stores a per-line discount percentage. Out-of-range values
// are clamped to [0,100], not rejected; clamping at this boundary is the
// single place discount sanitation happens.
func (p *PendingSale) SetDiscount(index, percent int) error {
	if index < 0 || index >= len(p.Lines) {
		return apperror.NewNotFound("sale line", index)
	}
	p.Lines[index].DiscountPercent = clampDiscount(percent)
	return nil
}

// LineTotal is price * quantity * (1 - discount/100), computed on decimals
// with no intermediate rounding. Round to currency precision only when
// rendering.
func LineTotal(line PendingLine) types.Money {
	qty := decimal.NewFromInt(int64(line.Quantity))
	// (100 - d) * 10^-2 is an exact shift, unlike a decimal division.
	factor := decimal.New(int64(100-line.DiscountPercent), -2)
	return line.UnitPrice.Mul(qty).Mul(factor)
}

// TransactionTotal is the exact sum of all line totals.
func (p *PendingSale) TransactionTotal() types.Money {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

// SubmissionPayload is the normalized request handed to the persistence
// collaborator on submit.
type SubmissionPayload struct {
	CustomerName     string        `json:"customerName,omitempty"`
	PaymentMode      PaymentMode   `json:"paymentMode"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	Lines            []PayloadLine `json:"lines"`
}

// PayloadLine is one entry of the submission payload.
type PayloadLine struct {
	MedicineID      id.ID       `json:"medicineId"`
	BatchID         id.ID       `json:"batchId"`
	Quantity        int         `json:"quantity"`
	UnitPrice       types.Money `json:"unitPrice"`
	ExpirationDate  time.Time   `json:"expirationDate"`
	DiscountPercent int         `json:"discountPercent"`
}

// BuildPayload produces the normalized submission request.
// Fails with EmptySale when no lines were composed; the customer label is
// dropped when blank and the payment reference is kept only for UPI.
func (p *PendingSale) BuildPayload() (*SubmissionPayload, error) {
	if len(p.Lines) == 0 {
		return nil, apperror.NewEmptySale()
	}
	if !p.PaymentMode.IsValid() {
		return nil, apperror.NewValidation("invalid payment mode").
			WithDetail("value", string(p.PaymentMode))
	}

	payload := &SubmissionPayload{
		CustomerName: strings.TrimSpace(p.CustomerName),
		PaymentMode:  p.PaymentMode,
		Lines:        make([]PayloadLine, 0, len(p.Lines)),
	}
	if p.PaymentMode == PayUPI {
		payload.PaymentReference = strings.TrimSpace(p.PaymentReference)
	}

	for _, line := range p.Lines {
		payload.Lines = append(payload.Lines, PayloadLine{
			MedicineID:      line.MedicineID,
			BatchID:         line.BatchID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			ExpirationDate:  line.ExpirationDate,
			DiscountPercent: line.DiscountPercent,
		})
	}
	return payload, nil
}

func clampDiscount(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// joinLineFailures folds per-batch validation errors into one error.
// A single failure passes through unchanged; multiple failures are wrapped
// with per-batch messages in the details.
func joinLineFailures(failures []*apperror.AppError) error {
	if len(failures) == 1 {
		return failures[0]
	}
	joined := apperror.NewValidation("one or more sale lines were rejected")
	for _, f := range failures {
		key := f.Code
		if batchID, ok := f.Details["batch_id"]; ok {
			key = batchID.(string)
		}
		joined = joined.WithDetail(key, f.Message)
	}
	return joined
}
