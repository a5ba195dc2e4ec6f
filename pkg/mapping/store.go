// pkg/mapping/store.go
package mapping

import (
	"errors"
	"time"

	"github.com/careops/phi-cleanse/pkg/model"
)

var (
	// ErrCorruptMappingFile indicates a persisted mapping table that could
	// not be read or decoded. Stores recover by treating the table as empty
	// and surfacing a warning; cross-run consistency for that field type is
	// lost going forward.
	ErrCorruptMappingFile = errors.New("corrupt mapping file")

	// ErrFlushFailed indicates a mapping table could not be persisted after
	// the configured retries. In-memory results remain valid.
	ErrFlushFailed = errors.New("mapping flush failed")
)

// FlushPolicy selects when new mapping entries are persisted.
type FlushPolicy int

const (
	// FlushAtEnd persists tables once, when the caller flushes explicitly at
	// the end of a run. Faster, but a crash loses the run's new entries.
	FlushAtEnd FlushPolicy = iota
	// FlushPerWrite persists after every new entry. Crash-safe at the cost
	// of throughput.
	FlushPerWrite
)

// String returns a string representation of the flush policy.
func (p FlushPolicy) String() string {
	switch p {
	case FlushAtEnd:
		return "at-end"
	case FlushPerWrite:
		return "per-write"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal store diagnostic surfaced to the run result. It
// never contains original or sanitized values.
type Warning struct {
	FieldType model.FieldType
	Message   string
	Time      time.Time
}

// Store persists original→sanitized mappings partitioned per field type.
// Implementations guarantee at most one sanitized value per distinct
// original value per field type, within and across runs sharing the same
// persisted state. GetOrCreate must be safe for concurrent use.
type Store interface {
	// GetOrCreate returns the existing sanitized value for the original, or
	// invokes gen to produce, record and return a new one.
	GetOrCreate(ft model.FieldType, original string, gen func() (string, error)) (string, error)

	// Load eagerly loads the persisted table for a field type. Loading also
	// happens lazily on first access, so calling Load is optional.
	Load(ft model.FieldType) error

	// Flush persists the table for a field type.
	Flush(ft model.FieldType) error

	// FlushAll persists every loaded table.
	FlushAll() error

	// Warnings returns the diagnostics accumulated so far.
	Warnings() []Warning
}
