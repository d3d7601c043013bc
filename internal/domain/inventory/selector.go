package inventory

import (
	"bytes"
	"sort"
)

// SelectBatches orders and filters a medicine's batches for sale.
//
// The result is sorted ascending by expiration date (first-expiring-first-out)
// with ties broken by id ascending, which is deterministic because ids are
// time-ordered UUIDv7. Exhausted batches are dropped unless includeExhausted
// is set. The input slice is never mutated.
func SelectBatches(batches []*Batch, includeExhausted bool) []*Batch {
	selected := make([]*Batch, 0, len(batches))
	for _, b := range batches {
		if !includeExhausted && b.IsExhausted() {
			continue
		}
		selected = append(selected, b)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if !selected[i].ExpirationDate.Equal(selected[j].ExpirationDate) {
			return selected[i].ExpirationDate.Before(selected[j].ExpirationDate)
		}
		return bytes.Compare(selected[i].ID[:], selected[j].ID[:]) < 0
	})

	return selected
}
