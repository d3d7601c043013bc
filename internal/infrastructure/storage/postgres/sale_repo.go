package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/sales"
)

const (
	saleTable     = "sales"
	saleLineTable = "sale_lines"
)

var saleCols = []string{
	"id", "version", "created_at",
	"customer_name", "payment_mode", "payment_reference", "total_amount",
}

var saleLineCols = []string{
	"line_id", "sale_id", "line_no", "medicine_id", "batch_id",
	"quantity", "unit_price", "expiration_date", "discount_percent", "amount",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txManager *TxManager
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *TxManager) *SaleRepo {
	return &SaleRepo{txManager: txManager}
}

var _ sales.Repository = (*SaleRepo)(nil)

func (r *SaleRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the sale header and all lines. Callers are expected to run
// it inside a transaction together with the batch decrements.
func (r *SaleRepo) Create(ctx context.Context, s *sales.Sale) error {
	querier := r.txManager.GetQuerier(ctx)

	header := r.builder().
		Insert(saleTable).
		Columns(saleCols...).
		Values(
			s.ID, s.Version, s.CreatedAt,
			s.CustomerName, s.PaymentMode, s.PaymentReference, s.TotalAmount,
		)

	sql, args, err := header.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return mapConnectionError(fmt.Errorf("insert sale: %w", err))
	}

	lines := r.builder().
		Insert(saleLineTable).
		Columns(saleLineCols...)
	for _, l := range s.Lines {
		lines = lines.Values(
			l.LineID, l.SaleID, l.LineNo, l.MedicineID, l.BatchID,
			l.Quantity, l.UnitPrice, l.ExpirationDate, l.DiscountPercent, l.Amount,
		)
	}

	sql, args, err = lines.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewNotFound("batch", "referenced by sale line")
		}
		return mapConnectionError(fmt.Errorf("insert sale lines: %w", err))
	}
	return nil
}

// GetByID retrieves one sale with its lines in display order.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	querier := r.txManager.GetQuerier(ctx)

	q := r.builder().
		Select(saleCols...).
		From(saleTable).
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sales.Sale
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, mapConnectionError(fmt.Errorf("get sale: %w", err))
	}

	lq := r.builder().
		Select(saleLineCols...).
		From(saleLineTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("line_no ASC")

	sql, args, err = lq.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &s.Lines, sql, args...); err != nil {
		return nil, mapConnectionError(fmt.Errorf("get sale lines: %w", err))
	}
	return &s, nil
}
