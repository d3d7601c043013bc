// Package importer provides bulk CSV reconciliation: per-row parsing and
// validation, insert-or-append upsert decisions against the catalog, and an
// aggregated outcome report. It also writes the flattened stock export.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/types"
	"pharmastock/internal/domain/inventory"
)

// Row is one parsed, not-yet-committed CSV data row.
type Row struct {
	// Num is the 1-based data row number, used as row identifier in reports
	Num int

	Name         string
	Description  string
	Manufacturer string

	// HasStock marks a medicine+batch row; when false the stock fields below
	// are unset and the row only creates a catalog entry
	HasStock       bool
	ExpirationDate time.Time
	Quantity       int
	UnitPrice      types.Money
}

// BatchSpec converts the row's stock fields into a batch spec.
func (r *Row) BatchSpec() inventory.BatchSpec {
	return inventory.BatchSpec{
		ExpirationDate: r.ExpirationDate,
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
	}
}

// ParseCatalogRow parses one data row of the catalog upload format
// (Name,Description,Manufacture,ExpirationDate,Quantity,Price).
//
// The row transitions through the states of the reconciliation machine:
// missing identity fields fail immediately; stock fields must be all present
// (medicine+batch row) or all absent (medicine-only row); present stock
// fields are normalized — dd-mm-yyyy dates to canonical day-granularity
// dates, quantity to a positive integer, price to a positive decimal — and
// an expiration strictly before today fails the row.
func ParseCatalogRow(num int, fields []string, today time.Time) (*Row, error) {
	f := padFields(fields, 6)
	row := &Row{
		Num:          num,
		Name:         strings.TrimSpace(f[0]),
		Description:  strings.TrimSpace(f[1]),
		Manufacturer: strings.TrimSpace(f[2]),
	}

	if row.Name == "" || row.Description == "" || row.Manufacturer == "" {
		return nil, apperror.NewMalformedRow("missing required fields").
			WithDetail("row", num)
	}

	expStr := strings.TrimSpace(f[3])
	qtyStr := strings.TrimSpace(f[4])
	priceStr := strings.TrimSpace(f[5])

	present := 0
	for _, s := range []string{expStr, qtyStr, priceStr} {
		if s != "" {
			present++
		}
	}
	switch present {
	case 0:
		return row, nil // medicine-only row
	case 3:
		// medicine + batch row, normalized below
	default:
		return nil, apperror.NewMalformedRow(
			fmt.Sprintf("incomplete stock fields for %s", row.Name)).
			WithDetail("row", num)
	}

	if err := row.normalizeStock(expStr, qtyStr, priceStr, today); err != nil {
		return nil, err
	}
	return row, nil
}

// ParseStockRow parses one data row of the stock-only upload format
// (Medicine Name,Expiration Date,Quantity,Price). All fields are required;
// the named medicine must already exist in the catalog.
func ParseStockRow(num int, fields []string, today time.Time) (*Row, error) {
	f := padFields(fields, 4)
	row := &Row{
		Num:  num,
		Name: strings.TrimSpace(f[0]),
	}
	if row.Name == "" {
		return nil, apperror.NewMalformedRow("missing required fields").
			WithDetail("row", num)
	}

	expStr := strings.TrimSpace(f[1])
	qtyStr := strings.TrimSpace(f[2])
	priceStr := strings.TrimSpace(f[3])
	if expStr == "" || qtyStr == "" || priceStr == "" {
		return nil, apperror.NewMalformedRow(
			fmt.Sprintf("incomplete stock fields for %s", row.Name)).
			WithDetail("row", num)
	}

	if err := row.normalizeStock(expStr, qtyStr, priceStr, today); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Row) normalizeStock(expStr, qtyStr, priceStr string, today time.Time) error {
	exp, err := types.ParseImportDate(expStr)
	if err != nil {
		return apperror.NewMalformedRow(
			fmt.Sprintf("invalid expiration date for %s", r.Name)).
			WithDetail("row", r.Num).
			WithDetail("value", expStr)
	}
	if exp.Before(types.DateOnly(today)) {
		return apperror.NewMalformedRow("expiration date in the past").
			WithDetail("row", r.Num).
			WithDetail("medicine", r.Name)
	}

	qty, err := strconv.Atoi(qtyStr)
	if err != nil || qty <= 0 {
		return apperror.NewMalformedRow(
			fmt.Sprintf("invalid quantity for %s", r.Name)).
			WithDetail("row", r.Num).
			WithDetail("value", qtyStr)
	}

	price, err := types.NewMoneyFromString(priceStr)
	if err != nil || !price.IsPositive() {
		return apperror.NewMalformedRow(
			fmt.Sprintf("invalid price for %s", r.Name)).
			WithDetail("row", r.Num).
			WithDetail("value", priceStr)
	}

	r.HasStock = true
	r.ExpirationDate = exp
	r.Quantity = qty
	r.UnitPrice = price
	return nil
}

func padFields(fields []string, n int) []string {
	if len(fields) >= n {
		return fields[:n]
	}
	padded := make([]string, n)
	copy(padded, fields)
	return padded
}
