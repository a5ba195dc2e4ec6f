// pkg/generator/names.go
package generator

import (
	"strings"

	"github.com/careops/phi-cleanse/pkg/model"
)

// firstName generates a synthetic first name.
func (r *Registry) firstName(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	if !preserveFormat || sig.IsNull {
		return r.faker.FirstName(), nil
	}
	return r.buildFromSignature(sig, original, func(i int, spec model.TokenSpec) string {
		return strings.ToLower(r.faker.FirstName())
	}), nil
}

// lastName generates a synthetic last name.
func (r *Registry) lastName(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	if !preserveFormat || sig.IsNull {
		return r.faker.LastName(), nil
	}
	return r.buildFromSignature(sig, original, func(i int, spec model.TokenSpec) string {
		return strings.ToLower(r.faker.LastName())
	}), nil
}

// middleName generates a synthetic middle name. A single-letter original is
// treated as an initial and replaced by a single letter.
func (r *Registry) middleName(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	if len([]rune(strings.TrimSpace(original))) == 1 {
		return strings.ToUpper(r.faker.LetterN(1)), nil
	}
	return r.firstName(original, sig, preserveFormat)
}

// fullName generates a synthetic full name. When preserving format the first
// token draws from the first-name vocabulary and the remaining tokens from
// the last-name vocabulary, so "Mary Jo Smith" keeps its three-token shape.
func (r *Registry) fullName(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	if !preserveFormat || sig.IsNull {
		return r.faker.Name(), nil
	}
	return r.buildFromSignature(sig, original, func(i int, spec model.TokenSpec) string {
		if i == 0 {
			return strings.ToLower(r.faker.FirstName())
		}
		return strings.ToLower(r.faker.LastName())
	}), nil
}
