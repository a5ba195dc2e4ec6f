// pkg/catalog/catalog.go
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/careops/phi-cleanse/pkg/model"
)

// HeaderMatch is one header-fragment hit for a column name.
type HeaderMatch struct {
	FieldType model.FieldType
	Fragment  string  // The normalized fragment that matched
	Weight    float64 // Specificity of the fragment, in (0, 1]
}

// Shape is the value-structure rule for one field type: a compiled pattern,
// how many field types share the same pattern (lower = more specific), and a
// default synthetic form used when a source value has no usable structure.
// The form uses '#' for a digit and '?' for a letter.
type Shape struct {
	pattern     *regexp.Regexp
	specificity int
	defaultForm string
}

// Matches reports whether a value conforms to the shape.
func (s *Shape) Matches(value string) bool {
	return s.pattern.MatchString(value)
}

// Specificity returns the number of field types sharing this value shape.
// A smaller number means the shape identifies its field type more strongly.
func (s *Shape) Specificity() int {
	return s.specificity
}

// DefaultForm returns the catalog-default synthetic form for the shape.
func (s *Shape) DefaultForm() string {
	return s.defaultForm
}

// Catalog is the static registry of PHI field-type templates. It is built
// once and never mutated afterwards, so it is safe for concurrent readers.
type Catalog struct {
	templates []headerTemplate
	shapes    map[model.FieldType]*Shape
	types     []model.FieldType
}

// New builds the catalog from the built-in template tables.
func New() *Catalog {
	c := &Catalog{
		templates: headerTemplates,
		shapes:    make(map[model.FieldType]*Shape, len(shapeRules)),
	}

	// Count how many field types share each pattern so classification can
	// tie-break on shape specificity.
	sharers := make(map[string]int, len(shapeRules))
	for _, rule := range shapeRules {
		sharers[rule.pattern]++
	}

	for _, rule := range shapeRules {
		c.shapes[rule.fieldType] = &Shape{
			pattern:     regexp.MustCompile(rule.pattern),
			specificity: sharers[rule.pattern],
			defaultForm: rule.defaultForm,
		}
		c.types = append(c.types, rule.fieldType)
	}
	sort.Slice(c.types, func(i, j int) bool { return c.types[i] < c.types[j] })

	return c
}

// TemplatesForHeader returns the field types whose header fragments match the
// given column name, ordered by descending match weight. Only the longest
// matching fragment per field type is reported. The name is normalized
// (lowercased, separators stripped) before matching.
func (c *Catalog) TemplatesForHeader(name string) []HeaderMatch {
	normalized := NormalizeHeader(name)
	if normalized == "" {
		return nil
	}

	best := make(map[model.FieldType]HeaderMatch)
	for _, tpl := range c.templates {
		if !strings.Contains(normalized, tpl.fragment) {
			continue
		}
		current, seen := best[tpl.fieldType]
		if !seen || len(tpl.fragment) > len(current.Fragment) {
			best[tpl.fieldType] = HeaderMatch{
				FieldType: tpl.fieldType,
				Fragment:  tpl.fragment,
				Weight:    tpl.weight,
			}
		}
	}

	matches := make([]HeaderMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Weight != matches[j].Weight {
			return matches[i].Weight > matches[j].Weight
		}
		return matches[i].FieldType < matches[j].FieldType
	})

	return matches
}

// ValueShape returns the value-shape rule for a field type.
func (c *Catalog) ValueShape(ft model.FieldType) (*Shape, bool) {
	shape, ok := c.shapes[ft]
	return shape, ok
}

// Known reports whether the field type is registered in the catalog.
func (c *Catalog) Known(ft model.FieldType) bool {
	_, ok := c.shapes[ft]
	return ok
}

// FieldTypes returns all registered field types in stable order.
func (c *Catalog) FieldTypes() []model.FieldType {
	types := make([]model.FieldType, len(c.types))
	copy(types, c.types)
	return types
}

// NormalizeHeader lowercases a column name and strips separator characters
// so "Date_of_Birth", "date-of-birth" and "DateOfBirth" all compare equal.
func NormalizeHeader(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '_', '-', '.', '/':
			continue
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
