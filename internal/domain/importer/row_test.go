package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastock/internal/core/types"
)

var importToday = time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

func TestParseCatalogRow(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		wantErr  string
		hasStock bool
	}{
		{
			name:     "medicine with batch",
			fields:   []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "15-03-2027", "100", "2.50"},
			hasStock: true,
		},
		{
			name:   "medicine only",
			fields: []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "", "", ""},
		},
		{
			name:   "medicine only short row",
			fields: []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs"},
		},
		{
			name:    "missing name",
			fields:  []string{"", "Paracetamol 650mg", "Micro Labs"},
			wantErr: "missing required fields",
		},
		{
			name:    "missing manufacturer",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", ""},
			wantErr: "missing required fields",
		},
		{
			name:    "partial stock fields",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "15-03-2027", "100", ""},
			wantErr: "incomplete stock fields for Dolo 650",
		},
		{
			name:    "wrong date format",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "2027-03-15", "100", "2.50"},
			wantErr: "invalid expiration date for Dolo 650",
		},
		{
			name:    "expiration in the past",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "01-01-2026", "100", "2.50"},
			wantErr: "expiration date in the past",
		},
		{
			name:    "zero quantity",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "15-03-2027", "0", "2.50"},
			wantErr: "invalid quantity for Dolo 650",
		},
		{
			name:    "non-numeric quantity",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "15-03-2027", "many", "2.50"},
			wantErr: "invalid quantity for Dolo 650",
		},
		{
			name:    "non-positive price",
			fields:  []string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "15-03-2027", "100", "0"},
			wantErr: "invalid price for Dolo 650",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := ParseCatalogRow(7, tt.fields, importToday)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, row.Num)
			assert.Equal(t, tt.hasStock, row.HasStock)
		})
	}
}

func TestParseCatalogRow_NormalizesDate(t *testing.T) {
	row, err := ParseCatalogRow(1,
		[]string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "15-03-2027", "100", "2.50"},
		importToday)
	require.NoError(t, err)

	want, _ := types.ParseCanonicalDate("2027-03-15")
	assert.Equal(t, want, row.ExpirationDate)
	assert.Equal(t, 100, row.Quantity)
	assert.True(t, row.UnitPrice.Equal(types.MustMoney("2.50")))
}

func TestParseCatalogRow_ExpiringTodayAccepted(t *testing.T) {
	// Strictly-before-today fails; today itself is still sellable.
	_, err := ParseCatalogRow(1,
		[]string{"Dolo 650", "Paracetamol 650mg", "Micro Labs", "28-08-2026", "10", "2.50"},
		importToday)
	assert.NoError(t, err)
}

func TestParseStockRow(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		wantErr string
	}{
		{
			name:   "valid",
			fields: []string{"Dolo 650", "15-03-2027", "50", "2.50"},
		},
		{
			name:    "missing name",
			fields:  []string{"", "15-03-2027", "50", "2.50"},
			wantErr: "missing required fields",
		},
		{
			name:    "missing price",
			fields:  []string{"Dolo 650", "15-03-2027", "50"},
			wantErr: "incomplete stock fields for Dolo 650",
		},
		{
			name:    "past expiration",
			fields:  []string{"Dolo 650", "01-01-2020", "50", "2.50"},
			wantErr: "expiration date in the past",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := ParseStockRow(3, tt.fields, importToday)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, row.HasStock, "stock rows always carry a batch")
		})
	}
}
