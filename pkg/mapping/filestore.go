// pkg/mapping/filestore.go
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/careops/phi-cleanse/pkg/model"
)

// FileStore persists one JSON mapping table per field type under a
// directory, named "<field_type>.json" with the schema
// {"<original>": "<sanitized>", ...}. Tables load lazily on first access;
// flushes write to a temporary file and rename it into place so a crash
// mid-flush can never leave a partially written table.
type FileStore struct {
	dir           string
	policy        FlushPolicy
	retryAttempts int
	retryDelay    time.Duration
	logger        *zap.Logger

	mu       sync.Mutex
	tables   map[model.FieldType]map[string]string
	loaded   map[model.FieldType]bool
	dirty    map[model.FieldType]bool
	warnings []Warning
}

// FileStoreOption customizes a FileStore.
type FileStoreOption func(*FileStore)

// WithFlushPolicy sets the durability policy (default FlushAtEnd).
func WithFlushPolicy(policy FlushPolicy) FileStoreOption {
	return func(s *FileStore) { s.policy = policy }
}

// WithRetry sets the flush retry budget (default 3 attempts, 100ms apart).
func WithRetry(attempts int, delay time.Duration) FileStoreOption {
	return func(s *FileStore) {
		s.retryAttempts = attempts
		s.retryDelay = delay
	}
}

// NewFileStore creates a file-backed mapping store rooted at dir, creating
// the directory if needed.
func NewFileStore(dir string, logger *zap.Logger, opts ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("mapping directory cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mapping directory: %w", err)
	}

	s := &FileStore{
		dir:           dir,
		policy:        FlushAtEnd,
		retryAttempts: 3,
		retryDelay:    100 * time.Millisecond,
		logger:        logger,
		tables:        make(map[model.FieldType]map[string]string),
		loaded:        make(map[model.FieldType]bool),
		dirty:         make(map[model.FieldType]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetOrCreate implements Store. Access is serialized so two columns sharing
// a field type cannot race a mapping into existence twice.
func (s *FileStore) GetOrCreate(ft model.FieldType, original string, gen func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ft)

	table := s.tables[ft]
	if sanitized, ok := table[original]; ok {
		return sanitized, nil
	}

	sanitized, err := gen()
	if err != nil {
		return "", err
	}

	table[original] = sanitized
	s.dirty[ft] = true

	if s.policy == FlushPerWrite {
		if err := s.flushLocked(ft); err != nil {
			// The in-memory mapping stays valid; only durability degraded.
			s.warn(ft, fmt.Sprintf("flush failed: %v", err))
		}
	}

	return sanitized, nil
}

// Load implements Store.
func (s *FileStore) Load(ft model.FieldType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ft)
	return nil
}

// Flush implements Store.
func (s *FileStore) Flush(ft model.FieldType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ft)
}

// FlushAll implements Store.
func (s *FileStore) FlushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for ft := range s.tables {
		if err := s.flushLocked(ft); err != nil {
			s.warn(ft, fmt.Sprintf("flush failed: %v", err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Warnings implements Store.
func (s *FileStore) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Size returns the number of entries currently held for a field type.
func (s *FileStore) Size(ft model.FieldType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ft)
	return len(s.tables[ft])
}

// ensureLoaded lazily loads the persisted table for a field type. A corrupt
// or unreadable file degrades to an empty table with a surfaced warning
// rather than aborting the run.
func (s *FileStore) ensureLoaded(ft model.FieldType) {
	if s.loaded[ft] {
		return
	}
	s.loaded[ft] = true
	s.tables[ft] = make(map[string]string)

	path := s.tablePath(ft)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn(ft, fmt.Sprintf("%v: %v", ErrCorruptMappingFile, err))
		}
		return
	}

	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		s.warn(ft, fmt.Sprintf("%v: %v; prior mappings for this field type are lost", ErrCorruptMappingFile, err))
		return
	}

	s.tables[ft] = table
	s.logger.Debug("Loaded mapping table",
		zap.String("fieldType", ft.String()),
		zap.Int("entries", len(table)))
}

// flushLocked persists one table atomically, retrying transient failures.
// Callers must hold the mutex.
func (s *FileStore) flushLocked(ft model.FieldType) error {
	if !s.dirty[ft] {
		return nil
	}

	data, err := json.MarshalIndent(s.tables[ft], "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping table: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(s.retryDelay)
		}
		if lastErr = s.writeAtomic(ft, data); lastErr == nil {
			s.dirty[ft] = false
			s.logger.Debug("Flushed mapping table",
				zap.String("fieldType", ft.String()),
				zap.Int("entries", len(s.tables[ft])))
			return nil
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrFlushFailed, s.retryAttempts, lastErr)
}

// writeAtomic writes the table to a temp file and renames it into place.
func (s *FileStore) writeAtomic(ft model.FieldType, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ft.String()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.tablePath(ft)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace mapping file: %w", err)
	}
	return nil
}

func (s *FileStore) tablePath(ft model.FieldType) string {
	return filepath.Join(s.dir, ft.String()+".json")
}

// warn records a diagnostic and logs it without any cell values.
func (s *FileStore) warn(ft model.FieldType, message string) {
	s.warnings = append(s.warnings, Warning{FieldType: ft, Message: message, Time: time.Now()})
	s.logger.Warn("Mapping store warning",
		zap.String("fieldType", ft.String()),
		zap.String("warning", message))
}
