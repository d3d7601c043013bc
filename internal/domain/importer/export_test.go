package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
)

func TestWriteStock(t *testing.T) {
	exp, _ := types.ParseCanonicalDate("2027-03-15")
	rows := []inventory.StockRow{
		{MedicineName: "Azithral 500", Enabled: true, ExpirationDate: exp, AvailableQuantity: 60, UnitPrice: types.MustMoney("18")},
		{MedicineName: "Dolo 650", Enabled: false, ExpirationDate: exp, AvailableQuantity: 0, UnitPrice: types.MustMoney("2.5")},
	}

	var sb strings.Builder
	require.NoError(t, WriteStock(&sb, rows))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,enabled,expDate,availableQty,price", lines[0])
	assert.Equal(t, "Azithral 500,true,2027-03-15,60,18.00", lines[1])
	assert.Equal(t, "Dolo 650,false,2027-03-15,0,2.50", lines[2])
}

func TestWriteStock_EmptySnapshot(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteStock(&sb, nil))
	assert.Equal(t, "name,enabled,expDate,availableQty,price\n", sb.String())
}
