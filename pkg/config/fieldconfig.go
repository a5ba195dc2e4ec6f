// pkg/config/fieldconfig.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/careops/phi-cleanse/pkg/model"
)

// fieldConfigFile is the on-disk layout of a saved sanitization profile.
// preserve_format and consistent_mapping are pointers so that a field
// omitted from the file keeps its default of true.
type fieldConfigFile struct {
	FieldConfigs  map[string]fieldConfigEntry `json:"field_configs"`
	CommonRecords map[string]bool             `json:"common_records,omitempty"`
}

type fieldConfigEntry struct {
	FieldType         string `json:"field_type"`
	PreserveFormat    *bool  `json:"preserve_format,omitempty"`
	ConsistentMapping *bool  `json:"consistent_mapping,omitempty"`
}

// SaveFieldConfigs writes a sanitization profile to path as JSON. Columns
// with no field type set are omitted from the file.
func SaveFieldConfigs(path string, configs []model.FieldConfig) error {
	file := fieldConfigFile{
		FieldConfigs: make(map[string]fieldConfigEntry, len(configs)),
	}
	for _, cfg := range configs {
		if !cfg.FieldType.IsSet() {
			continue
		}
		preserve := cfg.PreserveFormat
		consistent := cfg.ConsistentMapping
		file.FieldConfigs[cfg.ColumnName] = fieldConfigEntry{
			FieldType:         cfg.FieldType.String(),
			PreserveFormat:    &preserve,
			ConsistentMapping: &consistent,
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal field configs: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write field configs: %w", err)
	}
	return nil
}

// LoadFieldConfigs reads a sanitization profile from path. Missing
// preserve_format or consistent_mapping fields default to true. Columns are
// returned in a stable name order.
func LoadFieldConfigs(path string) ([]model.FieldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field configs: %w", err)
	}

	var file fieldConfigFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse field configs: %w", err)
	}

	configs := make([]model.FieldConfig, 0, len(file.FieldConfigs))
	for column, entry := range file.FieldConfigs {
		cfg := model.NewFieldConfig(column, model.FieldType(entry.FieldType))
		if entry.PreserveFormat != nil {
			cfg.PreserveFormat = *entry.PreserveFormat
		}
		if entry.ConsistentMapping != nil {
			cfg.ConsistentMapping = *entry.ConsistentMapping
		}
		configs = append(configs, cfg)
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ColumnName < configs[j].ColumnName
	})
	return configs, nil
}

// ListFieldConfigFiles returns the JSON profile files under dir, sorted by
// name. A missing directory is treated as empty.
func ListFieldConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
