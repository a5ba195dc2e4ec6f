// pkg/generator/registry.go
package generator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/careops/phi-cleanse/pkg/catalog"
	"github.com/careops/phi-cleanse/pkg/model"
)

var (
	// ErrUnknownFieldType indicates a field type with no registered generator.
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrFormatUnrepresentable indicates a value whose structural signature
	// has no valid synthetic realization (for example a date layout that the
	// shifted date cannot reproduce). Callers recover by generating without
	// format preservation.
	ErrFormatUnrepresentable = errors.New("format has no valid synthetic realization")
)

// maxIdentityRetries bounds how often generation is retried when the output
// accidentally equals the original before falling back to a perturbation.
const maxIdentityRetries = 5

// GenerateFunc produces a synthetic replacement for one original value. When
// preserveFormat is set the output must honor the format signature. Functions
// are pure given the registry's random source; consistency across repeated
// originals is layered on top by the engine and mapping store.
type GenerateFunc func(original string, sig model.FormatSignature, preserveFormat bool) (string, error)

// Registry dispatches generation by field type. It replaces per-type
// subclassing with a tagged dispatch table; there is no shared mutable state
// beyond the seedable random source, which the registry serializes.
type Registry struct {
	mu      sync.Mutex
	faker   *gofakeit.Faker
	catalog *catalog.Catalog
	fns     map[model.FieldType]GenerateFunc
}

// New creates a registry over the given catalog. The seed makes generation
// reproducible; pass 0 for a random source.
func New(cat *catalog.Catalog, seed uint64) (*Registry, error) {
	if cat == nil {
		return nil, errors.New("catalog cannot be nil")
	}

	r := &Registry{
		faker:   gofakeit.New(seed),
		catalog: cat,
		fns:     make(map[model.FieldType]GenerateFunc),
	}

	r.fns[model.FieldTypeFirstName] = r.firstName
	r.fns[model.FieldTypeLastName] = r.lastName
	r.fns[model.FieldTypeMiddleName] = r.middleName
	r.fns[model.FieldTypeFullName] = r.fullName
	r.fns[model.FieldTypeDateOfBirth] = r.dateOfBirth
	r.fns[model.FieldTypeAppointmentDate] = r.appointmentDate
	r.fns[model.FieldTypeSSN] = r.ssn
	r.fns[model.FieldTypeMRN] = r.identifier(model.FieldTypeMRN)
	r.fns[model.FieldTypeInsuranceID] = r.identifier(model.FieldTypeInsuranceID)
	r.fns[model.FieldTypeMedicaidNumber] = r.identifier(model.FieldTypeMedicaidNumber)
	r.fns[model.FieldTypeDriversLicense] = r.identifier(model.FieldTypeDriversLicense)
	r.fns[model.FieldTypeAddress] = r.address
	r.fns[model.FieldTypePhone] = r.phone
	r.fns[model.FieldTypeEmail] = r.email
	r.fns[model.FieldTypeProviderName] = r.providerName
	r.fns[model.FieldTypeFacilityName] = r.facilityName

	return r, nil
}

// Has reports whether a generator is registered for the field type.
func (r *Registry) Has(ft model.FieldType) bool {
	_, ok := r.fns[ft]
	return ok
}

// Generate produces a sanitized value for the field type. The output is
// guaranteed to differ from a non-empty original.
func (r *Registry) Generate(ft model.FieldType, original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn, ok := r.fns[ft]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, ft)
	}

	var out string
	for attempt := 0; attempt <= maxIdentityRetries; attempt++ {
		var err error
		out, err = fn(original, sig, preserveFormat)
		if err != nil {
			return "", err
		}
		if out != original || strings.TrimSpace(original) == "" {
			return out, nil
		}
	}

	// The random source keeps landing on the original; force a difference.
	return perturb(out), nil
}

// perturb changes a single character so the result cannot equal the input.
func perturb(value string) string {
	runes := []rune(value)
	for i, ch := range runes {
		switch {
		case ch >= '0' && ch <= '9':
			runes[i] = '0' + (ch-'0'+1)%10
			return string(runes)
		case ch >= 'a' && ch <= 'z':
			runes[i] = 'a' + (ch-'a'+1)%26
			return string(runes)
		case ch >= 'A' && ch <= 'Z':
			runes[i] = 'A' + (ch-'A'+1)%26
			return string(runes)
		}
	}
	return value + "x"
}

// defaultForm resolves the catalog-default synthetic form for a field type,
// used when the source value has no usable structure.
func (r *Registry) defaultForm(ft model.FieldType) string {
	if shape, ok := r.catalog.ValueShape(ft); ok {
		return shape.DefaultForm()
	}
	return "########"
}

// bothify fills a catalog form template: '#' becomes a digit, '?' a letter.
func (r *Registry) bothify(form string) string {
	return r.faker.Lexify(r.faker.Numerify(form))
}
