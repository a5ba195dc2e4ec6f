// pkg/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/careops/phi-cleanse/pkg/catalog"
	"github.com/careops/phi-cleanse/pkg/format"
	"github.com/careops/phi-cleanse/pkg/generator"
	"github.com/careops/phi-cleanse/pkg/mapping"
	"github.com/careops/phi-cleanse/pkg/model"
)

// Config provides the engine tunables.
type Config struct {
	// BatchSize bounds how many rows of a column are processed between
	// context checks, capping peak work between cancellation points.
	BatchSize int
	// WorkerCount is the number of columns sanitized concurrently. 1 means
	// sequential processing.
	WorkerCount int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:   500,
		WorkerCount: 1,
	}
}

// Engine orchestrates a sanitization run: for every configured column it
// resolves each cell through the mapping store and generator registry, and
// records which cells changed. The mapping store is injected at construction
// so its load/flush lifecycle stays explicit.
type Engine struct {
	catalog  *catalog.Catalog
	registry *generator.Registry
	store    mapping.Store
	logger   *zap.Logger
	cfg      Config
}

// New creates an engine with the default configuration.
func New(cat *catalog.Catalog, registry *generator.Registry, store mapping.Store, logger *zap.Logger) (*Engine, error) {
	return NewWithConfig(cat, registry, store, logger, DefaultConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(cat *catalog.Catalog, registry *generator.Registry, store mapping.Store, logger *zap.Logger, cfg Config) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("generator registry cannot be nil")
	}
	if store == nil {
		return nil, errors.New("mapping store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("batch size must be positive")
	}
	if cfg.WorkerCount <= 0 {
		return nil, errors.New("worker count must be positive")
	}

	return &Engine{
		catalog:  cat,
		registry: registry,
		store:    store,
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// columnTask is one configured column scheduled for sanitization.
type columnTask struct {
	index    int // Position in the task list, for deterministic merging
	colIndex int
	config   model.FieldConfig
}

// columnOutcome is the per-column result collected from a worker.
type columnOutcome struct {
	changes  []model.ChangeRecord
	warnings []Warning
	err      error
}

// Sanitize runs the engine over a dataset. The input dataset is never
// mutated; the result carries a sanitized clone of identical shape plus the
// change records. Columns without a configured field type pass through
// untouched. The only fatal error is context cancellation; everything else
// degrades to warnings on the result.
func (e *Engine) Sanitize(ctx context.Context, ds *model.Dataset, configs []model.FieldConfig) (*Result, error) {
	if ds == nil {
		return nil, errors.New("dataset cannot be nil")
	}

	sanitized := ds.Clone()
	result := newResult(sanitized)

	e.logger.Info("Starting sanitization run",
		zap.String("runID", result.RunID),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", len(ds.Columns)),
		zap.Int("configuredColumns", len(configs)))

	tasks := e.planTasks(sanitized, configs, result)

	outcomes := make([]columnOutcome, len(tasks))
	if e.cfg.WorkerCount > 1 && len(tasks) > 1 {
		e.runParallel(ctx, sanitized, tasks, outcomes)
	} else {
		for _, task := range tasks {
			outcomes[task.index] = e.processColumn(ctx, sanitized, task)
		}
	}

	var runErr error
	for i, task := range tasks {
		outcome := outcomes[i]
		result.Changes = append(result.Changes, outcome.changes...)
		result.Warnings = append(result.Warnings, outcome.warnings...)
		result.ColumnCounts[task.config.ColumnName] = len(outcome.changes)
		result.CellsSanitized += len(outcome.changes)
		if outcome.err != nil && runErr == nil {
			runErr = outcome.err
		}
	}

	// Persist new mappings and surface any store diagnostics. A flush
	// failure does not invalidate the in-memory result.
	if err := e.store.FlushAll(); err != nil {
		e.logger.Warn("Mapping flush failed; results remain valid in memory",
			zap.Error(err))
	}
	for _, w := range e.store.Warnings() {
		result.AddWarning(Warning{
			Category:  WarningMappingStore,
			FieldType: w.FieldType,
			Message:   w.Message,
		})
	}

	result.complete()

	e.logger.Info("Sanitization run complete",
		zap.String("runID", result.RunID),
		zap.Int("cellsSanitized", result.CellsSanitized),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration))

	if runErr != nil {
		return result, fmt.Errorf("sanitization interrupted: %w", runErr)
	}
	return result, nil
}

// planTasks validates the field configs against the dataset and catalog,
// surfacing skips as warnings.
func (e *Engine) planTasks(ds *model.Dataset, configs []model.FieldConfig, result *Result) []columnTask {
	tasks := make([]columnTask, 0, len(configs))
	seen := make(map[string]bool, len(configs))

	for _, cfg := range configs {
		if !cfg.FieldType.IsSet() {
			continue // Unconfigured columns pass through untouched.
		}
		if seen[cfg.ColumnName] {
			result.AddWarning(Warning{
				Category:   WarningDuplicateColumn,
				ColumnName: cfg.ColumnName,
				Message:    "column configured more than once; first config wins",
			})
			continue
		}

		colIndex := ds.ColumnIndex(cfg.ColumnName)
		if colIndex < 0 {
			result.AddWarning(Warning{
				Category:   WarningMissingColumn,
				ColumnName: cfg.ColumnName,
				Message:    "column not present in dataset",
			})
			continue
		}
		if !e.catalog.Known(cfg.FieldType) || !e.registry.Has(cfg.FieldType) {
			result.AddWarning(Warning{
				Category:   WarningUnknownFieldType,
				ColumnName: cfg.ColumnName,
				FieldType:  cfg.FieldType,
				Message:    "no catalog entry or generator for field type; column skipped",
			})
			continue
		}

		seen[cfg.ColumnName] = true
		tasks = append(tasks, columnTask{index: len(tasks), colIndex: colIndex, config: cfg})
	}

	return tasks
}

// runParallel sanitizes columns with a bounded worker pool. Workers touch
// disjoint column indices of the shared row slices, and mappings for field
// types shared between columns are serialized inside the store.
func (e *Engine) runParallel(ctx context.Context, ds *model.Dataset, tasks []columnTask, outcomes []columnOutcome) {
	taskCh := make(chan columnTask)

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				outcomes[task.index] = e.processColumn(ctx, ds, task)
			}
		}()
	}

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)
	wg.Wait()
}

// processColumn sanitizes one column in bounded row batches, checking the
// context between batches so a cancelled run stops without corrupting
// already-flushed mapping state.
func (e *Engine) processColumn(ctx context.Context, ds *model.Dataset, task columnTask) columnOutcome {
	var outcome columnOutcome
	cfg := task.config
	fallbacks := 0
	failures := 0

	for start := 0; start < len(ds.Rows); start += e.cfg.BatchSize {
		select {
		case <-ctx.Done():
			outcome.err = ctx.Err()
			return outcome
		default:
		}

		end := start + e.cfg.BatchSize
		if end > len(ds.Rows) {
			end = len(ds.Rows)
		}

		for row := start; row < end; row++ {
			if task.colIndex >= len(ds.Rows[row]) {
				continue
			}
			original := ds.Rows[row][task.colIndex]
			if strings.TrimSpace(original) == "" {
				continue // Empty cells are never sent to a generator.
			}

			sanitized, fellBack, err := e.resolveCell(cfg, original)
			if err != nil {
				failures++
				continue
			}
			if fellBack {
				fallbacks++
			}
			if sanitized == original {
				continue
			}

			ds.Rows[row][task.colIndex] = sanitized
			outcome.changes = append(outcome.changes, model.ChangeRecord{
				RowIndex:       row,
				ColumnName:     cfg.ColumnName,
				OriginalValue:  original,
				SanitizedValue: sanitized,
			})
		}
	}

	if fallbacks > 0 {
		outcome.warnings = append(outcome.warnings, Warning{
			Category:   WarningFormatFallback,
			ColumnName: cfg.ColumnName,
			FieldType:  cfg.FieldType,
			Message:    fmt.Sprintf("%d cell(s) had no format-preserving realization; generated without format preservation", fallbacks),
		})
	}
	if failures > 0 {
		outcome.warnings = append(outcome.warnings, Warning{
			Category:   WarningGenerationFailed,
			ColumnName: cfg.ColumnName,
			FieldType:  cfg.FieldType,
			Message:    fmt.Sprintf("%d cell(s) could not be sanitized and were left unchanged", failures),
		})
	}

	e.logger.Debug("Column sanitized",
		zap.String("column", cfg.ColumnName),
		zap.String("fieldType", cfg.FieldType.String()),
		zap.Int("changed", len(outcome.changes)),
		zap.Int("fallbacks", fallbacks),
		zap.Int("failures", failures))

	return outcome
}

// resolveCell produces the sanitized value for one cell. In consistent mode
// the mapping store guarantees identical originals resolve to the identical
// replacement; otherwise the generator runs fresh for every cell, and
// repeated originals may legitimately receive different values.
func (e *Engine) resolveCell(cfg model.FieldConfig, original string) (sanitized string, fellBack bool, err error) {
	sig := model.FormatSignature{IsNull: true}
	if cfg.PreserveFormat {
		sig = format.Analyze(original)
	}

	gen := func() (string, error) {
		out, genErr := e.registry.Generate(cfg.FieldType, original, sig, cfg.PreserveFormat)
		if errors.Is(genErr, generator.ErrFormatUnrepresentable) {
			fellBack = true
			return e.registry.Generate(cfg.FieldType, original, sig, false)
		}
		return out, genErr
	}

	if cfg.ConsistentMapping {
		sanitized, err = e.store.GetOrCreate(cfg.FieldType, original, gen)
		return sanitized, fellBack, err
	}

	sanitized, err = gen()
	return sanitized, fellBack, err
}
