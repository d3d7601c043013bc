package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastock/internal/core/id"
	"pharmastock/internal/core/types"
)

func TestNewBatch(t *testing.T) {
	exp, _ := types.ParseCanonicalDate("2027-03-15")
	spec := BatchSpec{
		ExpirationDate: exp,
		Quantity:       40,
		UnitPrice:      types.MustMoney("12.75"),
	}

	b, err := NewBatch(id.New(), spec)
	require.NoError(t, err)

	assert.Equal(t, 40, b.PurchasedQuantity)
	assert.Equal(t, 40, b.AvailableQuantity, "new batch starts fully available")
	assert.Equal(t, exp, b.ExpirationDate)
	assert.False(t, b.IsExhausted())
}

func TestNewBatch_ZeroPrice(t *testing.T) {
	exp, _ := types.ParseCanonicalDate("2027-03-15")
	spec := BatchSpec{
		ExpirationDate: exp,
		Quantity:       10,
		UnitPrice:      types.MustMoney("0"),
	}

	// Free samples carry a zero price; only negative prices are invalid.
	b, err := NewBatch(id.New(), spec)
	require.NoError(t, err)
	assert.True(t, b.UnitPrice.IsZero())
}

func TestNewBatch_Invalid(t *testing.T) {
	exp, _ := types.ParseCanonicalDate("2027-03-15")

	tests := []struct {
		name string
		spec BatchSpec
	}{
		{name: "zero quantity", spec: BatchSpec{ExpirationDate: exp, Quantity: 0, UnitPrice: types.MustMoney("1")}},
		{name: "negative quantity", spec: BatchSpec{ExpirationDate: exp, Quantity: -5, UnitPrice: types.MustMoney("1")}},
		{name: "negative price", spec: BatchSpec{ExpirationDate: exp, Quantity: 5, UnitPrice: types.MustMoney("-1")}},
		{name: "no expiration", spec: BatchSpec{Quantity: 5, UnitPrice: types.MustMoney("1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBatch(id.New(), tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestRemainingShelfLifeDays(t *testing.T) {
	exp, _ := types.ParseCanonicalDate("2026-09-10")
	b := &Batch{ExpirationDate: exp}

	tests := []struct {
		name string
		asOf string
		want int
	}{
		{name: "ten days out", asOf: "2026-08-31", want: 10},
		{name: "expiration day", asOf: "2026-09-10", want: 0},
		{name: "expired", asOf: "2026-09-13", want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asOf, _ := types.ParseCanonicalDate(tt.asOf)
			assert.Equal(t, tt.want, RemainingShelfLifeDays(b, asOf))
		})
	}
}

func TestRemainingShelfLifeDays_IgnoresTimeOfDay(t *testing.T) {
	exp, _ := types.ParseCanonicalDate("2026-09-10")
	b := &Batch{ExpirationDate: exp}

	lateEvening := time.Date(2026, 9, 9, 23, 55, 0, 0, time.UTC)
	assert.Equal(t, 1, RemainingShelfLifeDays(b, lateEvening))
}

func TestClassifyShelfLife(t *testing.T) {
	tests := []struct {
		days int
		want ShelfLifeBand
	}{
		{days: -1, want: BandExpired},
		{days: 0, want: BandCritical},
		{days: 30, want: BandCritical},
		{days: 31, want: BandWarning},
		{days: 90, want: BandWarning},
		{days: 91, want: BandNormal},
		{days: 365, want: BandNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyShelfLife(tt.days), "days=%d", tt.days)
	}
}
