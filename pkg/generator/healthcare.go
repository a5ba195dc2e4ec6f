// pkg/generator/healthcare.go
package generator

import (
	"strings"

	"github.com/careops/phi-cleanse/pkg/model"
)

// Provider and facility names lack a regular structural shape, so these
// generators draw from closed vocabularies instead of shape synthesis. Only
// the coarse case pattern of the original is carried over.

var facilitySuffixes = []string{
	"Medical Center", "Community Hospital", "Family Clinic",
	"Health Partners", "Regional Medical Group", "Care Center",
	"Wellness Clinic", "Primary Care Associates",
}

var providerTitles = []string{"Dr.", "Dr.", "Dr.", "NP", "PA"}

// providerName generates a synthetic provider name. A "Dr."-style prefix on
// the original is mirrored with a credential from the title vocabulary.
func (r *Registry) providerName(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	name := r.faker.FirstName() + " " + r.faker.LastName()

	trimmed := strings.TrimSpace(original)
	if strings.HasPrefix(strings.ToLower(trimmed), "dr") {
		name = r.faker.RandomString(providerTitles) + " " + name
	}

	if preserveFormat {
		name = adjustCase(name, sig.Case)
	}
	return name, nil
}

// facilityName generates a synthetic facility name from a city and a
// facility-type suffix.
func (r *Registry) facilityName(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	name := r.faker.City() + " " + r.faker.RandomString(facilitySuffixes)
	if preserveFormat {
		name = adjustCase(name, sig.Case)
	}
	return name, nil
}
