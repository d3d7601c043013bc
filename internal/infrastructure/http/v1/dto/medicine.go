package dto

import (
	"time"

	"pharmastock/internal/domain/catalogs/medicine"
)

// CreateMedicineRequest for creating catalog entries.
// An optional Batch records the first purchase lot in the same transaction.
type CreateMedicineRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	Manufacturer *string `json:"manufacturer"`

	Batch *CreateBatchRequest `json:"batch"`
}

// ToEntity maps the request to a catalog entry.
func (r CreateMedicineRequest) ToEntity() *medicine.Medicine {
	return medicine.New(r.Name, r.Description, r.Manufacturer)
}

// MedicineResponse is the catalog entry view.
type MedicineResponse struct {
	ID           string    `json:"id"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Manufacturer *string   `json:"manufacturer,omitempty"`
	Enabled      bool      `json:"enabled"`
}

// FromMedicine creates MedicineResponse from the entity.
func FromMedicine(m *medicine.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:           m.ID.String(),
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		Name:         m.Name,
		Description:  m.Description,
		Manufacturer: m.Manufacturer,
		Enabled:      m.Enabled,
	}
}

// CreateMedicineResponse returns the created entry; BatchID is set when the
// request carried an initial batch.
type CreateMedicineResponse struct {
	MedicineResponse
	BatchID *string `json:"batchId,omitempty"`
}
