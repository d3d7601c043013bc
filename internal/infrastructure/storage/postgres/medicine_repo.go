package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/catalogs/medicine"
)

const medicineTable = "medicines"

var medicineCols = []string{"id", "version", "created_at", "name", "description", "manufacturer", "enabled"}

// MedicineRepo implements medicine.Repository.
type MedicineRepo struct {
	txManager *TxManager
}

// NewMedicineRepo creates a new medicine repository.
func NewMedicineRepo(txManager *TxManager) *MedicineRepo {
	return &MedicineRepo{txManager: txManager}
}

var _ medicine.Repository = (*MedicineRepo)(nil)

func (r *MedicineRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *MedicineRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(medicineCols...).From(medicineTable)
}

// Create inserts a medicine. The unique index on lower(name) is the
// authoritative duplicate guard; its violation maps to DuplicateName.
func (r *MedicineRepo) Create(ctx context.Context, m *medicine.Medicine) error {
	q := r.builder().
		Insert(medicineTable).
		Columns(medicineCols...).
		Values(m.ID, m.Version, m.CreatedAt, m.Name, m.Description, m.Manufacturer, m.Enabled)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err, "medicines_name") {
			return apperror.NewDuplicateName("medicine", m.Name)
		}
		return mapConnectionError(fmt.Errorf("insert medicine: %w", err))
	}
	return nil
}

// GetByID retrieves a medicine by id.
func (r *MedicineRepo) GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": medicineID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m medicine.Medicine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("medicine", medicineID.String())
		}
		return nil, mapConnectionError(fmt.Errorf("get medicine: %w", err))
	}
	return &m, nil
}

// List returns the catalog ordered by name.
func (r *MedicineRepo) List(ctx context.Context, includeDisabled bool) ([]*medicine.Medicine, error) {
	q := r.baseSelect().OrderBy("name ASC")
	if !includeDisabled {
		q = q.Where(squirrel.Eq{"enabled": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*medicine.Medicine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, mapConnectionError(fmt.Errorf("list medicines: %w", err))
	}
	return items, nil
}

// SearchByName searches case-insensitively per the match mode.
func (r *MedicineRepo) SearchByName(ctx context.Context, term string, mode medicine.MatchMode) ([]*medicine.Medicine, error) {
	pattern := "%" + term + "%"
	if mode == medicine.MatchStartsWith {
		pattern = term + "%"
	}

	q := r.baseSelect().
		Where(squirrel.ILike{"name": pattern}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*medicine.Medicine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, mapConnectionError(fmt.Errorf("search medicines: %w", err))
	}
	return items, nil
}

// FindByExactName resolves a medicine by case-insensitive exact name.
func (r *MedicineRepo) FindByExactName(ctx context.Context, name string) (*medicine.Medicine, error) {
	q := r.baseSelect().
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m medicine.Medicine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("medicine", name)
		}
		return nil, mapConnectionError(fmt.Errorf("find medicine by name: %w", err))
	}
	return &m, nil
}

// HasSoldStock reports whether any batch of the medicine has been sold from.
func (r *MedicineRepo) HasSoldStock(ctx context.Context, medicineID id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From("batches").
		Where(squirrel.Eq{"medicine_id": medicineID}).
		Where(squirrel.Expr("available_quantity < purchased_quantity")).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &one, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, mapConnectionError(fmt.Errorf("check sold stock: %w", err))
	}
	return true, nil
}

// Delete removes a medicine and its batches.
func (r *MedicineRepo) Delete(ctx context.Context, medicineID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	delBatches, args, err := r.builder().
		Delete("batches").
		Where(squirrel.Eq{"medicine_id": medicineID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete batches: %w", err)
	}
	if _, err := querier.Exec(ctx, delBatches, args...); err != nil {
		return mapConnectionError(fmt.Errorf("delete batches: %w", err))
	}

	delMed, args, err := r.builder().
		Delete(medicineTable).
		Where(squirrel.Eq{"id": medicineID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete medicine: %w", err)
	}
	result, err := querier.Exec(ctx, delMed, args...)
	if err != nil {
		return mapConnectionError(fmt.Errorf("delete medicine: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("medicine", medicineID.String())
	}
	return nil
}
