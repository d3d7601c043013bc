package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
)

// stockExportHeader mirrors the upload shape flattened to one row per batch.
var stockExportHeader = []string{"name", "enabled", "expDate", "availableQty", "price"}

// WriteStock writes the flattened stock export as CSV. Dates are canonical
// yyyy-mm-dd; prices are rounded to currency precision here, at the
// presentation boundary.
func WriteStock(w io.Writer, rows []inventory.StockRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(stockExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.MedicineName,
			strconv.FormatBool(row.Enabled),
			types.FormatDate(row.ExpirationDate),
			strconv.Itoa(row.AvailableQuantity),
			row.UnitPrice.StringFixed(types.CurrencyScale),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
