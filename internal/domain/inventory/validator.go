package inventory

import (
	"pharmastock/internal/core/apperror"
)

// ValidateAllocation checks a proposed quantity against a batch's live
// available stock.
//
// alreadyAllocated is the sum of quantities other lines of the same pending
// sale have claimed from this batch; the check holds the invariant that the
// total claimed never exceeds AvailableQuantity. The caller must pass a
// freshly fetched batch, not a cached snapshot, because the collaborator may
// have sold from it in the meantime.
//
// The function is idempotent and free of side effects, so it can be re-run
// on every quantity edit.
func ValidateAllocation(b *Batch, requested, alreadyAllocated int) error {
	if requested <= 0 {
		return apperror.NewInvalidQuantity(requested)
	}

	total := alreadyAllocated + requested
	if total > b.AvailableQuantity {
		return apperror.NewInsufficientStock(b.ID.String(), total, b.AvailableQuantity)
	}

	return nil
}
