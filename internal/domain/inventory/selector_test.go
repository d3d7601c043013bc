package inventory

import (
	"testing"
	"time"

	"pharmastock/internal/core/entity"
	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
)

func testBatch(t *testing.T, expiration string, available int) *Batch {
	t.Helper()
	exp, err := types.ParseCanonicalDate(expiration)
	if err != nil {
		t.Fatalf("parse date %q: %v", expiration, err)
	}
	return &Batch{
		Base:              entity.NewBase(),
		MedicineID:        id.New(),
		ExpirationDate:    exp,
		PurchasedQuantity: available + 10,
		AvailableQuantity: available,
		UnitPrice:         types.MustMoney("8.50"),
	}
}

func TestSelectBatches_FEFOOrder(t *testing.T) {
	later := testBatch(t, "2027-06-01", 5)
	middle := testBatch(t, "2026-12-01", 5)
	earliest := testBatch(t, "2026-10-05", 5)

	got := SelectBatches([]*Batch{later, middle, earliest}, false)

	want := []*Batch{earliest, middle, later}
	if len(got) != len(want) {
		t.Fatalf("length mismatch\nwant: %d\ngot:  %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("position %d: want %s, got %s", i, want[i].ID, got[i].ID)
		}
	}
}

func TestSelectBatches_TieBreakByID(t *testing.T) {
	// Same expiration day: the earlier-created batch (smaller time-ordered
	// id) must come first regardless of input order.
	first := testBatch(t, "2026-11-11", 3)
	time.Sleep(2 * time.Millisecond)
	second := testBatch(t, "2026-11-11", 3)

	got := SelectBatches([]*Batch{second, first}, false)
	if got[0].ID != first.ID {
		t.Errorf("tie-break: want %s first, got %s", first.ID, got[0].ID)
	}

	// And the order must not depend on input permutation.
	got = SelectBatches([]*Batch{first, second}, false)
	if got[0].ID != first.ID {
		t.Errorf("tie-break after permutation: want %s first, got %s", first.ID, got[0].ID)
	}
}

func TestSelectBatches_ExcludesExhausted(t *testing.T) {
	live := testBatch(t, "2026-10-05", 5)
	empty := testBatch(t, "2026-01-01", 0)

	got := SelectBatches([]*Batch{empty, live}, false)
	if len(got) != 1 || got[0].ID != live.ID {
		t.Fatalf("want only the live batch, got %d batches", len(got))
	}

	got = SelectBatches([]*Batch{empty, live}, true)
	if len(got) != 2 {
		t.Fatalf("includeExhausted: want 2 batches, got %d", len(got))
	}
	if got[0].ID != empty.ID {
		t.Errorf("includeExhausted: exhausted-but-earlier batch should sort first")
	}
}

func TestSelectBatches_DoesNotMutateInput(t *testing.T) {
	a := testBatch(t, "2027-01-01", 5)
	b := testBatch(t, "2026-01-01", 5)
	input := []*Batch{a, b}

	_ = SelectBatches(input, false)

	if input[0].ID != a.ID || input[1].ID != b.ID {
		t.Error("input slice was reordered")
	}
}
