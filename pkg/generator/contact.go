// pkg/generator/contact.go
package generator

import (
	"strings"

	"github.com/careops/phi-cleanse/pkg/format"
	"github.com/careops/phi-cleanse/pkg/model"
)

// streetWords is a closed vocabulary for rebuilding street-name tokens when
// preserving address structure.
var streetWords = []string{
	"oak", "maple", "cedar", "elm", "pine", "willow", "birch", "ash",
	"main", "park", "lake", "hill", "river", "spring", "sunset", "meadow",
	"street", "avenue", "drive", "lane", "court", "road", "way", "place",
}

// phone generates a synthetic phone number. With format preservation every
// digit run is regenerated in place, so "(555) 123-4567" and "555.123.4567"
// keep their punctuation and any extension suffix.
func (r *Registry) phone(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	if !preserveFormat || sig.IsNull {
		return r.faker.Numerify(r.defaultForm(model.FieldTypePhone)), nil
	}
	return r.genericIdentifier(original, sig), nil
}

// email generates a synthetic email address. With format preservation the
// local part is rebuilt to the original's structure and the domain is kept,
// matching the behavior expected by downstream systems that route on domain.
func (r *Registry) email(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	at := strings.LastIndex(original, "@")

	if !preserveFormat || sig.IsNull || at <= 0 {
		return strings.ToLower(r.faker.Username()) + "@" + r.faker.DomainName(), nil
	}

	local := original[:at]
	domain := original[at+1:]
	localSig := format.Analyze(local)

	newLocal := r.buildFromSignature(localSig, local, func(i int, spec model.TokenSpec) string {
		if spec.Class == model.TokenDigits {
			return r.faker.DigitN(uint(spec.Length))
		}
		return strings.ToLower(r.faker.Username())
	})

	return newLocal + "@" + domain, nil
}

// address generates a synthetic street address. With format preservation the
// house number and each word are regenerated in place; apartment and unit
// markers keep their punctuation because separators are preserved.
func (r *Registry) address(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	if !preserveFormat || sig.IsNull {
		return r.faker.Street(), nil
	}
	return r.buildFromSignature(sig, original, func(i int, spec model.TokenSpec) string {
		if spec.Class == model.TokenDigits {
			return r.faker.DigitN(uint(spec.Length))
		}
		return r.faker.RandomString(streetWords)
	}), nil
}
