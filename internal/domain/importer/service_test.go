package importer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/catalogs/medicine"
	"pharmastock/internal/domain/inventory"
)

// fakeCatalog records calls and simulates duplicate-name collisions for
// preloaded names.
type fakeCatalog struct {
	mu sync.Mutex

	existing map[string]id.ID // lowercased name -> id

	created        []string
	createdBatches []id.ID

	failCreateBatch bool
	vanishOnFind    bool
}

func newFakeCatalog(existingNames ...string) *fakeCatalog {
	existing := make(map[string]id.ID, len(existingNames))
	for _, name := range existingNames {
		existing[strings.ToLower(name)] = id.New()
	}
	return &fakeCatalog{existing: existing}
}

func (f *fakeCatalog) CreateMedicine(ctx context.Context, m *medicine.Medicine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(m.Name)
	if _, ok := f.existing[key]; ok {
		return apperror.NewDuplicateName("medicine", m.Name)
	}
	f.existing[key] = m.ID
	f.created = append(f.created, m.Name)
	return nil
}

func (f *fakeCatalog) CreateMedicineWithBatch(ctx context.Context, m *medicine.Medicine, spec inventory.BatchSpec) error {
	if err := f.CreateMedicine(ctx, m); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdBatches = append(f.createdBatches, m.ID)
	return nil
}

func (f *fakeCatalog) FindByExactName(ctx context.Context, name string) (*medicine.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vanishOnFind {
		return nil, apperror.NewNotFound("medicine", name)
	}
	medicineID, ok := f.existing[strings.ToLower(name)]
	if !ok {
		return nil, apperror.NewNotFound("medicine", name)
	}
	m := medicine.New(name, nil, nil)
	m.ID = medicineID
	return m, nil
}

func (f *fakeCatalog) CreateBatch(ctx context.Context, medicineID id.ID, spec inventory.BatchSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateBatch {
		return apperror.NewUnavailable(nil)
	}
	f.createdBatches = append(f.createdBatches, medicineID)
	return nil
}

func newTestService(catalog Catalog) *Service {
	s := NewService(catalog)
	s.now = func() time.Time { return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC) }
	return s
}

const catalogHeader = "Name,Description,Manufacture,ExpirationDate,Quantity,Price\n"

func TestImportCatalog_MixedOutcomes(t *testing.T) {
	catalog := newFakeCatalog("Dolo 650")
	svc := newTestService(catalog)

	input := catalogHeader +
		"Dolo 650,Paracetamol 650mg,Micro Labs,15-03-2027,100,2.50\n" + // existing -> batch appended
		"Azithral 500,Azithromycin 500mg,Alembic,10-10-2027,60,18.00\n" + // new with batch
		"Cetzine,Cetirizine 10mg,GSK,,,\n" + // new medicine only
		",missing name,Nowhere,15-03-2027,10,1.00\n" // malformed

	report, err := svc.ImportCatalog(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, report.AppendedBatch)
	assert.Equal(t, 1, report.NewMedicineBatch)
	assert.Equal(t, 1, report.NewMedicineOnly)
	assert.Equal(t, 3, report.Succeeded())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 4, report.Failures[0].Row, "data rows are numbered from 1 after the header")
	assert.Equal(t, "missing required fields", report.Failures[0].Reason)
}

func TestImportCatalog_DuplicateFallbackIsCaseInsensitive(t *testing.T) {
	catalog := newFakeCatalog("Dolo 650")
	svc := newTestService(catalog)

	input := catalogHeader +
		"DOLO 650,Paracetamol 650mg,Micro Labs,15-03-2027,100,2.50\n"

	report, err := svc.ImportCatalog(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, report.AppendedBatch)
	assert.Empty(t, report.Failures)
	assert.Empty(t, catalog.created, "no new medicine may be created for a name collision")
}

func TestImportCatalog_FallbackIsBounded(t *testing.T) {
	// DuplicateName followed by a failing append must fail the row, not loop
	// or mask the error as success.
	catalog := newFakeCatalog("Dolo 650")
	catalog.failCreateBatch = true
	svc := newTestService(catalog)

	input := catalogHeader +
		"Dolo 650,Paracetamol 650mg,Micro Labs,15-03-2027,100,2.50\n"

	report, err := svc.ImportCatalog(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Succeeded())
	require.Len(t, report.Failures, 1)
}

func TestImportCatalog_DuplicateButVanished(t *testing.T) {
	catalog := newFakeCatalog("Dolo 650")
	catalog.vanishOnFind = true
	svc := newTestService(catalog)

	input := catalogHeader +
		"Dolo 650,Paracetamol 650mg,Micro Labs,15-03-2027,100,2.50\n"

	report, err := svc.ImportCatalog(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "medicine reported as existing but could not be found", report.Failures[0].Reason)
}

func TestImportCatalog_NoValidData(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "header only", input: catalogHeader},
		{name: "empty input", input: ""},
		{name: "header and blank lines", input: catalogHeader + "\n , , \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeCatalog())
			report, err := svc.ImportCatalog(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, 0, report.Succeeded())
			require.Len(t, report.Failures, 1)
			assert.Equal(t, 0, report.Failures[0].Row)
			assert.Equal(t, "no valid data", report.Failures[0].Reason)
		})
	}
}

func TestImportCatalog_OneBadRowDoesNotAbort(t *testing.T) {
	catalog := newFakeCatalog()
	svc := newTestService(catalog)

	input := catalogHeader +
		"Good One,Desc,Maker,15-03-2027,10,1.00\n" +
		"Bad One,Desc,Maker,not-a-date,10,1.00\n" +
		"Good Two,Desc,Maker,15-03-2027,10,1.00\n"

	report, err := svc.ImportCatalog(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, report.NewMedicineBatch)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].Row)
}

func TestImportStock(t *testing.T) {
	catalog := newFakeCatalog("Dolo 650")
	svc := newTestService(catalog)

	input := "Medicine Name,Expiration Date,Quantity,Price\n" +
		"Dolo 650,15-03-2027,50,2.50\n" +
		"Unknown Med,15-03-2027,50,2.50\n"

	report, err := svc.ImportStock(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, report.AppendedBatch)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "medicine not found", report.Failures[0].Reason)
	assert.Empty(t, catalog.created, "stock import never creates medicines")
}

func TestImportCatalog_ManyRowsConcurrently(t *testing.T) {
	catalog := newFakeCatalog()
	svc := newTestService(catalog)

	var sb strings.Builder
	sb.WriteString(catalogHeader)
	for i := 0; i < 50; i++ {
		sb.WriteString("Med ")
		sb.WriteByte(byte('A' + i%26))
		sb.WriteString(string(rune('a'+i/26)) + ",Desc,Maker,15-03-2027,10,1.00\n")
	}

	report, err := svc.ImportCatalog(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, 50, report.Succeeded())
	assert.Empty(t, report.Failures)
}
