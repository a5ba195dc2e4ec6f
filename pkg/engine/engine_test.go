// pkg/engine/engine_test.go
package engine

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careops/phi-cleanse/pkg/catalog"
	"github.com/careops/phi-cleanse/pkg/generator"
	"github.com/careops/phi-cleanse/pkg/mapping"
	"github.com/careops/phi-cleanse/pkg/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat := catalog.New()
	reg, err := generator.New(cat, 42)
	require.NoError(t, err)
	store, err := mapping.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	eng, err := New(cat, reg, store, zap.NewNop())
	require.NoError(t, err)
	return eng
}

func newEngineWithStore(t *testing.T, store mapping.Store, cfg Config) *Engine {
	t.Helper()
	cat := catalog.New()
	reg, err := generator.New(cat, 42)
	require.NoError(t, err)
	eng, err := NewWithConfig(cat, reg, store, zap.NewNop(), cfg)
	require.NoError(t, err)
	return eng
}

// countingStore records GetOrCreate traffic; used to prove the engine
// bypasses the store when consistent mapping is disabled.
type countingStore struct {
	calls int
}

func (s *countingStore) GetOrCreate(ft model.FieldType, original string, gen func() (string, error)) (string, error) {
	s.calls++
	return gen()
}
func (s *countingStore) Load(model.FieldType) error  { return nil }
func (s *countingStore) Flush(model.FieldType) error { return nil }
func (s *countingStore) FlushAll() error             { return nil }
func (s *countingStore) Warnings() []mapping.Warning { return nil }

func TestNewValidation(t *testing.T) {
	cat := catalog.New()
	reg, err := generator.New(cat, 1)
	require.NoError(t, err)
	store := &countingStore{}
	logger := zap.NewNop()

	_, err = New(nil, reg, store, logger)
	assert.Error(t, err)
	_, err = New(cat, nil, store, logger)
	assert.Error(t, err)
	_, err = New(cat, reg, nil, logger)
	assert.Error(t, err)
	_, err = New(cat, reg, store, nil)
	assert.Error(t, err)

	_, err = NewWithConfig(cat, reg, store, logger, Config{BatchSize: 0, WorkerCount: 1})
	assert.Error(t, err)
	_, err = NewWithConfig(cat, reg, store, logger, Config{BatchSize: 500, WorkerCount: 0})
	assert.Error(t, err)
}

func TestSanitizeConsistentMapping(t *testing.T) {
	eng := newTestEngine(t)
	ssnShape := regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)

	ds := &model.Dataset{
		Columns: []string{"SSN"},
		Rows: [][]string{
			{"123-45-6789"},
			{"123-45-6789"},
			{"987-65-4321"},
		},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
	})
	require.NoError(t, err)

	out := result.Dataset
	require.Len(t, out.Rows, 3)

	// Identical originals resolve identically; distinct originals diverge.
	assert.Equal(t, out.Rows[0][0], out.Rows[1][0])
	assert.NotEqual(t, out.Rows[0][0], out.Rows[2][0])

	for i, row := range out.Rows {
		assert.Regexp(t, ssnShape, row[0], "row %d", i)
		assert.NotEqual(t, ds.Rows[i][0], row[0], "row %d kept its original", i)
	}

	assert.Equal(t, 3, result.CellsSanitized)
	assert.Equal(t, 3, result.ColumnCounts["SSN"])
	assert.Len(t, result.Changes, 3)
	assert.False(t, result.HasWarnings())
	assert.NotEmpty(t, result.RunID)
}

func TestSanitizeInputNotMutated(t *testing.T) {
	eng := newTestEngine(t)

	ds := &model.Dataset{
		Columns: []string{"SSN"},
		Rows:    [][]string{{"123-45-6789"}},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
	})
	require.NoError(t, err)

	assert.Equal(t, "123-45-6789", ds.Rows[0][0])
	assert.NotEqual(t, "123-45-6789", result.Dataset.Rows[0][0])
}

func TestSanitizeUnconfiguredColumnsPassThrough(t *testing.T) {
	eng := newTestEngine(t)

	ds := &model.Dataset{
		Columns: []string{"SSN", "Notes"},
		Rows: [][]string{
			{"123-45-6789", "stable"},
			{"987-65-4321", "improving"},
		},
	}

	configs := []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
		{ColumnName: "Notes", FieldType: model.FieldTypeNone},
	}

	result, err := eng.Sanitize(context.Background(), ds, configs)
	require.NoError(t, err)

	assert.Equal(t, "stable", result.Dataset.Rows[0][1])
	assert.Equal(t, "improving", result.Dataset.Rows[1][1])
	assert.False(t, result.HasWarnings())
	for _, change := range result.Changes {
		assert.Equal(t, "SSN", change.ColumnName)
	}
}

func TestSanitizeEmptyCellsSkipped(t *testing.T) {
	eng := newTestEngine(t)

	ds := &model.Dataset{
		Columns: []string{"SSN"},
		Rows:    [][]string{{""}, {"   "}, {"123-45-6789"}},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
	})
	require.NoError(t, err)

	assert.Equal(t, "", result.Dataset.Rows[0][0])
	assert.Equal(t, "   ", result.Dataset.Rows[1][0])
	assert.Equal(t, 1, result.CellsSanitized)
}

func TestSanitizeUnknownFieldTypeSkipsColumn(t *testing.T) {
	eng := newTestEngine(t)

	ds := &model.Dataset{
		Columns: []string{"Color"},
		Rows:    [][]string{{"blue"}},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("Color", model.FieldType("favorite_color")),
	})
	require.NoError(t, err)

	assert.Equal(t, "blue", result.Dataset.Rows[0][0])
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningUnknownFieldType, result.Warnings[0].Category)
	assert.Equal(t, "Color", result.Warnings[0].ColumnName)
}

func TestSanitizeMissingColumnWarns(t *testing.T) {
	eng := newTestEngine(t)

	ds := &model.Dataset{
		Columns: []string{"SSN"},
		Rows:    [][]string{{"123-45-6789"}},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
		model.NewFieldConfig("Phone", model.FieldTypePhone),
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningMissingColumn, result.Warnings[0].Category)
	assert.Equal(t, "Phone", result.Warnings[0].ColumnName)
	assert.Equal(t, 1, result.CellsSanitized)
}

func TestSanitizeDuplicateConfigFirstWins(t *testing.T) {
	eng := newTestEngine(t)

	ds := &model.Dataset{
		Columns: []string{"SSN"},
		Rows:    [][]string{{"123-45-6789"}},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
		model.NewFieldConfig("SSN", model.FieldTypePhone),
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningDuplicateColumn, result.Warnings[0].Category)
	assert.Regexp(t, `^\d{3}-\d{2}-\d{4}$`, result.Dataset.Rows[0][0])
}

func TestSanitizeNonConsistentSkipsStore(t *testing.T) {
	store := &countingStore{}
	eng := newEngineWithStore(t, store, DefaultConfig())

	ds := &model.Dataset{
		Columns: []string{"Phone"},
		Rows:    [][]string{{"555-123-4567"}, {"555-123-4567"}},
	}

	cfg := model.NewFieldConfig("Phone", model.FieldTypePhone)
	cfg.ConsistentMapping = false

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{cfg})
	require.NoError(t, err)

	assert.Zero(t, store.calls, "store must not be consulted in non-consistent mode")
	assert.Equal(t, 2, result.CellsSanitized)
}

func TestSanitizeConsistentUsesStore(t *testing.T) {
	store := &countingStore{}
	eng := newEngineWithStore(t, store, DefaultConfig())

	ds := &model.Dataset{
		Columns: []string{"Phone"},
		Rows:    [][]string{{"555-123-4567"}, {"555-987-6543"}},
	}

	_, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("Phone", model.FieldTypePhone),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestSanitizeFormatFallbackWarns(t *testing.T) {
	eng := newTestEngine(t)

	// A non-date value with preserve_format set cannot keep its structure;
	// the engine retries without preservation and records one warning.
	ds := &model.Dataset{
		Columns: []string{"DOB"},
		Rows:    [][]string{{"unknown"}},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("DOB", model.FieldTypeDateOfBirth),
	})
	require.NoError(t, err)

	assert.NotEqual(t, "unknown", result.Dataset.Rows[0][0])
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningFormatFallback, result.Warnings[0].Category)
	assert.Equal(t, model.FieldTypeDateOfBirth, result.Warnings[0].FieldType)
}

func TestSanitizeMultipleColumnsParallel(t *testing.T) {
	cat := catalog.New()
	reg, err := generator.New(cat, 42)
	require.NoError(t, err)
	store, err := mapping.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	eng, err := NewWithConfig(cat, reg, store, zap.NewNop(), Config{BatchSize: 2, WorkerCount: 4})
	require.NoError(t, err)

	ds := &model.Dataset{
		Columns: []string{"First", "Last", "SSN", "Phone"},
		Rows: [][]string{
			{"Mary", "Smith", "123-45-6789", "555-123-4567"},
			{"John", "Doe", "987-65-4321", "555-987-6543"},
			{"Mary", "Smith", "123-45-6789", "555-123-4567"},
		},
	}

	result, err := eng.Sanitize(context.Background(), ds, []model.FieldConfig{
		model.NewFieldConfig("First", model.FieldTypeFirstName),
		model.NewFieldConfig("Last", model.FieldTypeLastName),
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
		model.NewFieldConfig("Phone", model.FieldTypePhone),
	})
	require.NoError(t, err)

	assert.Equal(t, 12, result.CellsSanitized)
	for _, col := range ds.Columns {
		assert.Equal(t, 3, result.ColumnCounts[col], "column %s", col)
	}

	// Consistency holds across rows within each column.
	out := result.Dataset
	for c := range ds.Columns {
		assert.Equal(t, out.Rows[0][c], out.Rows[2][c])
	}
}

func TestSanitizeCancelledContext(t *testing.T) {
	eng := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := &model.Dataset{
		Columns: []string{"SSN"},
		Rows:    [][]string{{"123-45-6789"}},
	}

	result, err := eng.Sanitize(ctx, ds, []model.FieldConfig{
		model.NewFieldConfig("SSN", model.FieldTypeSSN),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, "123-45-6789", result.Dataset.Rows[0][0])
}

func TestSanitizeNilDataset(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.Sanitize(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestWarningString(t *testing.T) {
	w := Warning{
		Category:   WarningFormatFallback,
		ColumnName: "DOB",
		FieldType:  model.FieldTypeDateOfBirth,
		Message:    "1 cell(s) affected",
	}
	s := w.String()
	assert.Contains(t, s, "FormatFallback")
	assert.Contains(t, s, "DOB")
	assert.Contains(t, s, "date_of_birth")
}
