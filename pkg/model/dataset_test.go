// pkg/model/dataset_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIndex(t *testing.T) {
	ds := &Dataset{Columns: []string{"A", "B", "C"}}
	assert.Equal(t, 0, ds.ColumnIndex("A"))
	assert.Equal(t, 2, ds.ColumnIndex("C"))
	assert.Equal(t, -1, ds.ColumnIndex("Z"))
}

func TestColumnPadsRaggedRows(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"A", "B"},
		Rows: [][]string{
			{"a1", "b1"},
			{"a2"},
		},
	}

	values := ds.Column("B")
	require.Len(t, values, 2)
	assert.Equal(t, "b1", values[0])
	assert.Equal(t, "", values[1])

	assert.Nil(t, ds.Column("Z"))
}

func TestCloneIsDeep(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"A"},
		Rows:    [][]string{{"original"}},
	}

	clone := ds.Clone()
	clone.Rows[0][0] = "modified"
	clone.Columns[0] = "renamed"

	assert.Equal(t, "original", ds.Rows[0][0])
	assert.Equal(t, "A", ds.Columns[0])
}

func TestNewFieldConfigDefaults(t *testing.T) {
	cfg := NewFieldConfig("SSN", FieldTypeSSN)
	assert.True(t, cfg.PreserveFormat)
	assert.True(t, cfg.ConsistentMapping)
	assert.True(t, cfg.FieldType.IsSet())
	assert.False(t, FieldTypeNone.IsSet())
}
