package importer

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/catalogs/medicine"
	"pharmastock/internal/domain/inventory"
	"pharmastock/pkg/logger"
)

// Catalog is the slice of the persistence collaborator the importer needs.
type Catalog interface {
	// CreateMedicine creates a catalog entry; DuplicateName on collision.
	CreateMedicine(ctx context.Context, m *medicine.Medicine) error

	// CreateMedicineWithBatch creates a medicine and its first batch in one
	// transaction; the medicine half carries the same duplicate semantics.
	CreateMedicineWithBatch(ctx context.Context, m *medicine.Medicine, spec inventory.BatchSpec) error

	// FindByExactName resolves a medicine by case-insensitive exact name.
	FindByExactName(ctx context.Context, name string) (*medicine.Medicine, error)

	// CreateBatch appends a batch to an existing medicine.
	CreateBatch(ctx context.Context, medicineID id.ID, spec inventory.BatchSpec) error
}

// serviceCatalog adapts the domain services to the Catalog interface.
type serviceCatalog struct {
	medicines *medicine.Service
	batches   *inventory.Service
}

// NewCatalog wires the medicine and inventory services as the importer's
// collaborator.
func NewCatalog(medicines *medicine.Service, batches *inventory.Service) Catalog {
	return &serviceCatalog{medicines: medicines, batches: batches}
}

func (c *serviceCatalog) CreateMedicine(ctx context.Context, m *medicine.Medicine) error {
	return c.medicines.Create(ctx, m)
}

func (c *serviceCatalog) CreateMedicineWithBatch(ctx context.Context, m *medicine.Medicine, spec inventory.BatchSpec) error {
	_, err := c.medicines.CreateWithBatch(ctx, m, spec)
	return err
}

func (c *serviceCatalog) FindByExactName(ctx context.Context, name string) (*medicine.Medicine, error) {
	return c.medicines.FindByExactName(ctx, name)
}

func (c *serviceCatalog) CreateBatch(ctx context.Context, medicineID id.ID, spec inventory.BatchSpec) error {
	_, err := c.batches.CreateBatch(ctx, medicineID, spec)
	return err
}

// Service runs bulk reconciliation imports.
type Service struct {
	catalog Catalog

	// rows are independent, so they are processed with bounded concurrency;
	// outcomes are written by index to keep reports deterministic
	concurrency int

	now func() time.Time
}

// NewService creates a new import service.
func NewService(catalog Catalog) *Service {
	return &Service{
		catalog:     catalog,
		concurrency: 4,
		now:         time.Now,
	}
}

// ImportCatalog ingests the catalog upload format
// (Name,Description,Manufacture,ExpirationDate,Quantity,Price).
// Each row independently ends in Success or Failed; one bad row never
// aborts the run.
func (s *Service) ImportCatalog(ctx context.Context, r io.Reader) (Report, error) {
	return s.run(ctx, r, func(num int, fields []string) (*Row, error) {
		return ParseCatalogRow(num, fields, s.now())
	}, s.reconcileCatalogRow)
}

// ImportStock ingests the stock-only upload format
// (Medicine Name,Expiration Date,Quantity,Price), appending batches to
// existing medicines.
func (s *Service) ImportStock(ctx context.Context, r io.Reader) (Report, error) {
	return s.run(ctx, r, func(num int, fields []string) (*Row, error) {
		return ParseStockRow(num, fields, s.now())
	}, s.appendStockRow)
}

type parseFunc func(num int, fields []string) (*Row, error)
type reconcileFunc func(ctx context.Context, row *Row) Outcome

func (s *Service) run(ctx context.Context, r io.Reader, parse parseFunc, reconcile reconcileFunc) (Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Report{}, apperror.NewMalformedRow("unreadable CSV input").WithCause(err)
	}

	// Drop the header and blank lines before numbering data rows.
	type pendingRow struct {
		index int
		row   *Row
	}
	outcomes := make([]Outcome, 0, len(records))
	var rowsPending []pendingRow
	num := 0
	for i, record := range records {
		if i == 0 || isBlank(record) {
			continue
		}
		num++
		row, parseErr := parse(num, record)
		if parseErr != nil {
			outcomes = append(outcomes, failedOutcome(num, record, parseErr))
			continue
		}
		outcomes = append(outcomes, Outcome{Row: num, Name: row.Name})
		rowsPending = append(rowsPending, pendingRow{index: len(outcomes) - 1, row: row})
	}

	if num == 0 {
		return Report{Failures: []Failure{{Row: 0, Reason: "no valid data"}}}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, pending := range rowsPending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[pending.index] = reconcile(gctx, pending.row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return buildReport(outcomes), err
	}

	report := buildReport(outcomes)
	logger.Info(ctx, "import finished",
		"rows", num,
		"succeeded", report.Succeeded(),
		"failed", len(report.Failures),
	)
	return report, nil
}

// reconcileCatalogRow drives one row through the upsert decision.
//
// A medicine+batch row first tries create-with-batch; a DuplicateName reply
// triggers exactly one alternate action — resolve the existing medicine by
// case-insensitive name and append a batch to it. Any other failure, and any
// failure of the alternate action, terminates the row as Failed. The bounded
// fallback keeps unrelated failures from being masked as "already exists".
func (s *Service) reconcileCatalogRow(ctx context.Context, row *Row) Outcome {
	if !row.HasStock {
		m := medicine.New(row.Name, optional(row.Description), optional(row.Manufacturer))
		if err := s.catalog.CreateMedicine(ctx, m); err != nil {
			return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: reasonOf(err)}
		}
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeNewMedicineOnly}
	}

	m := medicine.New(row.Name, optional(row.Description), optional(row.Manufacturer))
	err := s.catalog.CreateMedicineWithBatch(ctx, m, row.BatchSpec())
	if err == nil {
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeNewMedicineBatch}
	}
	if !apperror.IsDuplicateName(err) {
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: reasonOf(err)}
	}

	existing, findErr := s.catalog.FindByExactName(ctx, row.Name)
	if findErr != nil {
		if apperror.IsNotFound(findErr) {
			return Outcome{
				Row: row.Num, Name: row.Name, Kind: OutcomeFailed,
				Reason: "medicine reported as existing but could not be found",
			}
		}
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: reasonOf(findErr)}
	}

	if err := s.catalog.CreateBatch(ctx, existing.ID, row.BatchSpec()); err != nil {
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: reasonOf(err)}
	}
	return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeAppendedBatch}
}

// appendStockRow appends a batch to an already-cataloged medicine.
func (s *Service) appendStockRow(ctx context.Context, row *Row) Outcome {
	existing, err := s.catalog.FindByExactName(ctx, row.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: "medicine not found"}
		}
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: reasonOf(err)}
	}

	if err := s.catalog.CreateBatch(ctx, existing.ID, row.BatchSpec()); err != nil {
		return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeFailed, Reason: reasonOf(err)}
	}
	return Outcome{Row: row.Num, Name: row.Name, Kind: OutcomeAppendedBatch}
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func failedOutcome(num int, record []string, err error) Outcome {
	name := ""
	if len(record) > 0 {
		name = strings.TrimSpace(record[0])
	}
	return Outcome{Row: num, Name: name, Kind: OutcomeFailed, Reason: reasonOf(err)}
}

func reasonOf(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
