package dto

import (
	"pharmastock/internal/domain/importer"
)

// ImportFailureResponse identifies one rejected row.
type ImportFailureResponse struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ImportReportResponse aggregates an import run.
type ImportReportResponse struct {
	NewMedicineWithBatch int                     `json:"newMedicineWithBatch"`
	NewMedicineOnly      int                     `json:"newMedicineOnly"`
	BatchAppended        int                     `json:"batchAppended"`
	Succeeded            int                     `json:"succeeded"`
	Failed               int                     `json:"failed"`
	Failures             []ImportFailureResponse `json:"failures"`
}

// FromImportReport creates ImportReportResponse from the domain report.
func FromImportReport(r importer.Report) ImportReportResponse {
	failures := make([]ImportFailureResponse, len(r.Failures))
	for i, f := range r.Failures {
		failures[i] = ImportFailureResponse{Row: f.Row, Name: f.Name, Reason: f.Reason}
	}
	return ImportReportResponse{
		NewMedicineWithBatch: r.NewMedicineBatch,
		NewMedicineOnly:      r.NewMedicineOnly,
		BatchAppended:        r.AppendedBatch,
		Succeeded:            r.Succeeded(),
		Failed:               len(r.Failures),
		Failures:             failures,
	}
}
