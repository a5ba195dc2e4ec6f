// pkg/engine/result.go
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/careops/phi-cleanse/pkg/model"
)

// Result is the outcome of one sanitization run: the sanitized dataset of
// identical shape, the change records for downstream preview, and the run's
// diagnostics. The caller owns the result and discards it after use.
type Result struct {
	RunID          string
	Dataset        *model.Dataset
	Changes        []model.ChangeRecord
	CellsSanitized int
	ColumnCounts   map[string]int
	Warnings       []Warning
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// newResult initializes a result for a run.
func newResult(dataset *model.Dataset) *Result {
	return &Result{
		RunID:        uuid.New().String(),
		Dataset:      dataset,
		Changes:      make([]model.ChangeRecord, 0),
		ColumnCounts: make(map[string]int),
		Warnings:     make([]Warning, 0),
		StartTime:    time.Now(),
	}
}

// complete finalizes timing.
func (r *Result) complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// AddWarning appends a diagnostic to the result.
func (r *Result) AddWarning(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// HasWarnings reports whether any diagnostics were raised.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
