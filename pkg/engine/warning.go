// pkg/engine/warning.go
package engine

import (
	"fmt"

	"github.com/careops/phi-cleanse/pkg/model"
)

// WarningCategory classifies non-fatal diagnostics raised during a run.
// Nothing in the engine aborts the remaining dataset; every failure degrades
// to a narrower guarantee plus one of these.
type WarningCategory int

const (
	// WarningUnknownFieldType: a field config references a type the catalog
	// or generator registry does not know. The column is skipped.
	WarningUnknownFieldType WarningCategory = iota
	// WarningMissingColumn: a field config names a column absent from the
	// dataset.
	WarningMissingColumn
	// WarningDuplicateColumn: two field configs target the same column; the
	// first wins.
	WarningDuplicateColumn
	// WarningFormatFallback: one or more cells had no valid format-preserving
	// realization and were sanitized without format preservation.
	WarningFormatFallback
	// WarningGenerationFailed: a cell could not be sanitized at all and was
	// left unchanged.
	WarningGenerationFailed
	// WarningMappingStore: surfaced from the mapping store (corrupt table,
	// flush failure). Cross-run consistency for the named field type may be
	// lost.
	WarningMappingStore
)

// String returns a string representation of the warning category.
func (wc WarningCategory) String() string {
	switch wc {
	case WarningUnknownFieldType:
		return "UnknownFieldType"
	case WarningMissingColumn:
		return "MissingColumn"
	case WarningDuplicateColumn:
		return "DuplicateColumn"
	case WarningFormatFallback:
		return "FormatFallback"
	case WarningGenerationFailed:
		return "GenerationFailed"
	case WarningMappingStore:
		return "MappingStore"
	default:
		return fmt.Sprintf("Unknown(%d)", wc)
	}
}

// Warning is a single run diagnostic. Messages never carry cell values, only
// column names, field-type tags and counts.
type Warning struct {
	Category   WarningCategory
	ColumnName string
	FieldType  model.FieldType
	Message    string
}

// String returns a formatted warning message.
func (w Warning) String() string {
	s := fmt.Sprintf("[%s]", w.Category)
	if w.ColumnName != "" {
		s += " column=" + w.ColumnName
	}
	if w.FieldType.IsSet() {
		s += " fieldType=" + w.FieldType.String()
	}
	if w.Message != "" {
		s += " " + w.Message
	}
	return s
}
