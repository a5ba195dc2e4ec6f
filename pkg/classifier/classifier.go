// pkg/classifier/classifier.go
package classifier

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/careops/phi-cleanse/pkg/catalog"
	"github.com/careops/phi-cleanse/pkg/model"
)

// Config provides the classifier tunables. The thresholds are deliberately
// configurable rather than hard-coded; the defaults are documented in the
// package tests.
type Config struct {
	// SampleSize bounds how many non-empty values are tested per column.
	SampleSize int
	// MinConfidence is the cutoff below which a column is reported as
	// having no PHI detected.
	MinConfidence float64
	// HeaderWeight is the blend weight of the header score when both a
	// header fragment and value samples are available.
	HeaderWeight float64
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		SampleSize:    20,
		MinConfidence: 0.7,
		HeaderWeight:  0.7,
	}
}

// FieldClassifier ranks candidate PHI types per column from the column
// header and a bounded sample of its values. Classification only advises;
// it never mutates data.
type FieldClassifier struct {
	catalog *catalog.Catalog
	cfg     Config
	logger  *zap.Logger
}

// New creates a classifier with the default configuration.
func New(cat *catalog.Catalog, logger *zap.Logger) (*FieldClassifier, error) {
	return NewWithConfig(cat, logger, DefaultConfig())
}

// NewWithConfig creates a classifier with a custom configuration.
func NewWithConfig(cat *catalog.Catalog, logger *zap.Logger, cfg Config) (*FieldClassifier, error) {
	if cat == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.SampleSize <= 0 {
		return nil, errors.New("sample size must be positive")
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, errors.New("minimum confidence must be within [0, 1]")
	}
	if cfg.HeaderWeight < 0 || cfg.HeaderWeight > 1 {
		return nil, errors.New("header weight must be within [0, 1]")
	}

	return &FieldClassifier{catalog: cat, cfg: cfg, logger: logger}, nil
}

// Classify ranks PHI candidates for one column, highest confidence first.
// An empty result means no PHI was detected above the confidence threshold.
func (fc *FieldClassifier) Classify(columnName string, sampleValues []string) []model.ClassificationCandidate {
	headerScores := make(map[model.FieldType]float64)
	for _, match := range fc.catalog.TemplatesForHeader(columnName) {
		headerScores[match.FieldType] = match.Weight
	}

	samples := sampleNonEmpty(sampleValues, fc.cfg.SampleSize)

	candidates := make([]model.ClassificationCandidate, 0)
	for _, ft := range fc.catalog.FieldTypes() {
		headerScore, headerMatched := headerScores[ft]
		valueScore, valueTested := fc.valueScore(ft, samples)

		var confidence float64
		var basis model.MatchBasis
		switch {
		case headerMatched && valueTested:
			confidence = fc.cfg.HeaderWeight*headerScore + (1-fc.cfg.HeaderWeight)*valueScore
			basis = model.MatchBasisBoth
		case headerMatched:
			confidence = headerScore
			basis = model.MatchBasisHeader
		case valueTested:
			confidence = valueScore
			basis = model.MatchBasisValueSample
		default:
			continue
		}

		if confidence < fc.cfg.MinConfidence {
			continue
		}

		candidates = append(candidates, model.ClassificationCandidate{
			FieldType:  ft,
			Confidence: confidence,
			Basis:      basis,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		// Equal confidence: prefer the more specific value shape (fewer
		// field types share it), then a stable name order.
		si := fc.shapeSpecificity(candidates[i].FieldType)
		sj := fc.shapeSpecificity(candidates[j].FieldType)
		if si != sj {
			return si < sj
		}
		return candidates[i].FieldType < candidates[j].FieldType
	})

	if len(candidates) == 0 {
		fc.logger.Debug("No PHI detected for column",
			zap.String("column", columnName))
	} else {
		fc.logger.Info("Classified column",
			zap.String("column", columnName),
			zap.String("topCandidate", candidates[0].FieldType.String()),
			zap.Float64("confidence", candidates[0].Confidence),
			zap.String("basis", candidates[0].Basis.String()))
	}

	return candidates
}

// ClassifyDataset classifies every column of a dataset and returns the
// ranked candidates per column name. Columns with no detection are omitted.
func (fc *FieldClassifier) ClassifyDataset(ds *model.Dataset) map[string][]model.ClassificationCandidate {
	results := make(map[string][]model.ClassificationCandidate)
	for _, column := range ds.Columns {
		candidates := fc.Classify(column, ds.Column(column))
		if len(candidates) > 0 {
			results[column] = candidates
		}
	}

	fc.logger.Info("Dataset classification complete",
		zap.Int("columns", len(ds.Columns)),
		zap.Int("detected", len(results)))
	return results
}

// SuggestConfigs converts the top candidate per column into default field
// configs (preserve_format and consistent_mapping enabled). The caller may
// override any of them before sanitizing.
func (fc *FieldClassifier) SuggestConfigs(ds *model.Dataset) []model.FieldConfig {
	detected := fc.ClassifyDataset(ds)

	configs := make([]model.FieldConfig, 0, len(detected))
	for _, column := range ds.Columns {
		candidates, ok := detected[column]
		if !ok {
			continue
		}
		configs = append(configs, model.NewFieldConfig(column, candidates[0].FieldType))
	}
	return configs
}

// valueScore returns the shape-match score for the sampled values: the
// fraction matching the field type's shape, discounted by the number of
// field types sharing that shape. An ambiguous shape alone cannot push a
// column over the confidence threshold. The second return is false when
// there is nothing to test.
func (fc *FieldClassifier) valueScore(ft model.FieldType, samples []string) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	shape, ok := fc.catalog.ValueShape(ft)
	if !ok {
		return 0, false
	}

	matched := 0
	for _, v := range samples {
		if shape.Matches(v) {
			matched++
		}
	}
	return float64(matched) / float64(len(samples)) / float64(shape.Specificity()), true
}

func (fc *FieldClassifier) shapeSpecificity(ft model.FieldType) int {
	if shape, ok := fc.catalog.ValueShape(ft); ok {
		return shape.Specificity()
	}
	return int(^uint(0) >> 1)
}

// sampleNonEmpty takes the first limit non-empty values.
func sampleNonEmpty(values []string, limit int) []string {
	samples := make([]string, 0, limit)
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		samples = append(samples, strings.TrimSpace(v))
		if len(samples) == limit {
			break
		}
	}
	return samples
}
