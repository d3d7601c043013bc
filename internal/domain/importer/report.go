package importer

// OutcomeKind is the terminal state of one import row.
type OutcomeKind string

const (
	// OutcomeNewMedicineBatch: new medicine created together with a batch
	OutcomeNewMedicineBatch OutcomeKind = "new_medicine_with_batch"

	// OutcomeNewMedicineOnly: new medicine created, no stock attached
	OutcomeNewMedicineOnly OutcomeKind = "new_medicine_only"

	// OutcomeAppendedBatch: batch appended to an existing medicine
	OutcomeAppendedBatch OutcomeKind = "batch_appended"

	// OutcomeFailed: row rejected, reason recorded
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome records the terminal state of one row.
type Outcome struct {
	Row    int         `json:"row"`
	Name   string      `json:"name,omitempty"`
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
}

// Failure identifies a rejected row.
type Failure struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Report aggregates an import run. One bad row never aborts the run, so a
// report always covers every input row.
type Report struct {
	NewMedicineBatch int       `json:"newMedicineWithBatch"`
	NewMedicineOnly  int       `json:"newMedicineOnly"`
	AppendedBatch    int       `json:"batchAppended"`
	Failures         []Failure `json:"failures"`
}

// Succeeded returns the number of rows that reached a success state.
func (r Report) Succeeded() int {
	return r.NewMedicineBatch + r.NewMedicineOnly + r.AppendedBatch
}

// buildReport folds per-row outcomes into the aggregate.
func buildReport(outcomes []Outcome) Report {
	report := Report{Failures: make([]Failure, 0)}
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeNewMedicineBatch:
			report.NewMedicineBatch++
		case OutcomeNewMedicineOnly:
			report.NewMedicineOnly++
		case OutcomeAppendedBatch:
			report.AppendedBatch++
		case OutcomeFailed:
			report.Failures = append(report.Failures, Failure{
				Row:    o.Row,
				Name:   o.Name,
				Reason: o.Reason,
			})
		}
	}
	return report
}
