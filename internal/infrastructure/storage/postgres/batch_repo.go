package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/inventory"
)

const batchTable = "batches"

var batchCols = []string{
	"id", "version", "created_at", "medicine_id",
	"expiration_date", "purchased_quantity", "available_quantity", "unit_price",
}

// BatchRepo implements inventory.Repository.
type BatchRepo struct {
	txManager *TxManager
}

// NewBatchRepo creates a new batch repository.
func NewBatchRepo(txManager *TxManager) *BatchRepo {
	return &BatchRepo{txManager: txManager}
}

var _ inventory.Repository = (*BatchRepo)(nil)

func (r *BatchRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BatchRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(batchCols...).From(batchTable)
}

// Create inserts a batch.
func (r *BatchRepo) Create(ctx context.Context, b *inventory.Batch) error {
	q := r.builder().
		Insert(batchTable).
		Columns(batchCols...).
		Values(
			b.ID, b.Version, b.CreatedAt, b.MedicineID,
			b.ExpirationDate, b.PurchasedQuantity, b.AvailableQuantity, b.UnitPrice,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewNotFound("medicine", b.MedicineID.String())
		}
		return mapConnectionError(fmt.Errorf("insert batch: %w", err))
	}
	return nil
}

// GetByID retrieves a batch by id.
func (r *BatchRepo) GetByID(ctx context.Context, batchID id.ID) (*inventory.Batch, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": batchID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b inventory.Batch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, mapConnectionError(fmt.Errorf("get batch: %w", err))
	}
	return &b, nil
}

// ListByMedicine returns all batches of a medicine, exhausted included.
func (r *BatchRepo) ListByMedicine(ctx context.Context, medicineID id.ID) ([]*inventory.Batch, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"medicine_id": medicineID}).
		OrderBy("expiration_date ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Batch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, mapConnectionError(fmt.Errorf("list batches: %w", err))
	}
	return items, nil
}

// Consume conditionally decrements available quantity. The WHERE clause is
// the authoritative stock check: zero rows affected means another terminal
// got there first, and the live ceiling is reported back.
func (r *BatchRepo) Consume(ctx context.Context, batchID id.ID, qty int) error {
	q := r.builder().
		Update(batchTable).
		Set("available_quantity", squirrel.Expr("available_quantity - ?", qty)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": batchID}).
		Where(squirrel.Expr("available_quantity >= ?", qty))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return mapConnectionError(fmt.Errorf("consume batch: %w", err))
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	return apperror.NewInsufficientStock(batchID.String(), qty, current.AvailableQuantity)
}

// ListStockRows returns the flattened per-batch export view.
func (r *BatchRepo) ListStockRows(ctx context.Context) ([]inventory.StockRow, error) {
	q := r.builder().
		Select(
			"m.name AS medicine_name",
			"m.enabled",
			"b.expiration_date",
			"b.available_quantity",
			"b.unit_price",
		).
		From(batchTable + " b").
		Join(medicineTable + " m ON m.id = b.medicine_id").
		OrderBy("m.name ASC", "b.expiration_date ASC", "b.id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []inventory.StockRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, mapConnectionError(fmt.Errorf("list stock rows: %w", err))
	}
	return rows, nil
}
