// pkg/model/config.go
package model

// FieldConfig describes how a single column should be sanitized. It is owned
// by the caller; the engine receives a snapshot per run and never mutates it.
type FieldConfig struct {
	ColumnName        string    // Column the config applies to
	FieldType         FieldType // PHI category; FieldTypeNone means pass through
	PreserveFormat    bool      // Mirror the original value's structure
	ConsistentMapping bool      // Same original always maps to same replacement
}

// NewFieldConfig creates a config with the documented defaults:
// preserve_format and consistent_mapping both enabled.
func NewFieldConfig(columnName string, fieldType FieldType) FieldConfig {
	return FieldConfig{
		ColumnName:        columnName,
		FieldType:         fieldType,
		PreserveFormat:    true,
		ConsistentMapping: true,
	}
}

// MatchBasis indicates which signal produced a classification candidate.
type MatchBasis int

const (
	MatchBasisHeader MatchBasis = iota
	MatchBasisValueSample
	MatchBasisBoth
)

// String returns a string representation of the match basis.
func (mb MatchBasis) String() string {
	switch mb {
	case MatchBasisHeader:
		return "header"
	case MatchBasisValueSample:
		return "value-sample"
	case MatchBasisBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ClassificationCandidate is a ranked suggestion produced by the classifier.
// Candidates are transient advice; the authoritative FieldConfig is supplied
// by the caller.
type ClassificationCandidate struct {
	FieldType  FieldType
	Confidence float64 // In [0, 1]
	Basis      MatchBasis
}
