// pkg/generator/identifiers.go
package generator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/careops/phi-cleanse/pkg/model"
)

// ssn generates a synthetic Social Security Number. Area numbers stay in
// 001-899 (900+ is never issued). With format preservation the nine digits
// are distributed across the original's digit runs, so "123-45-6789" and
// "123456789" both keep their presentation; the literal original digits are
// never reused (the registry retries on accidental equality).
func (r *Registry) ssn(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	originalDigits := digitsOf(original)

	var out string
	for attempt := 0; attempt <= maxIdentityRetries; attempt++ {
		out = r.ssnOnce(original, sig, preserveFormat)
		if originalDigits == "" || digitsOf(out) != originalDigits {
			return out, nil
		}
	}
	return perturb(out), nil
}

func (r *Registry) ssnOnce(original string, sig model.FormatSignature, preserveFormat bool) string {
	digits := fmt.Sprintf("%03d%02d%04d",
		r.faker.Number(1, 899),
		r.faker.Number(1, 99),
		r.faker.Number(1, 9999))

	if !preserveFormat || sig.IsNull {
		return fmt.Sprintf("%s-%s-%s", digits[:3], digits[3:5], digits[5:])
	}

	if sig.DigitCount() != len(digits) {
		// Value does not carry nine digits; fill structurally instead.
		return r.genericIdentifier(original, sig)
	}

	stream := []rune(digits)
	return r.buildFromSignature(sig, original, func(i int, spec model.TokenSpec) string {
		take := spec.Length
		if take > len(stream) {
			take = len(stream)
		}
		chunk := string(stream[:take])
		stream = stream[take:]
		return chunk
	})
}

// identifier returns a generator for shape-driven identifiers (MRN,
// insurance ID, Medicaid number, drivers license): digits replace digits,
// letters replace letters, separators and prefixes keep their positions.
func (r *Registry) identifier(ft model.FieldType) GenerateFunc {
	return func(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
		if !preserveFormat || sig.IsNull {
			return strings.ToUpper(r.bothify(r.defaultForm(ft))), nil
		}
		return r.genericIdentifier(original, sig), nil
	}
}

// genericIdentifier fills every token of the signature with fresh content of
// the same character class.
func (r *Registry) genericIdentifier(original string, sig model.FormatSignature) string {
	return r.buildFromSignature(sig, original, func(i int, spec model.TokenSpec) string {
		if spec.Class == model.TokenDigits {
			return r.faker.DigitN(uint(spec.Length))
		}
		return strings.ToLower(r.faker.LetterN(uint(spec.Length)))
	})
}

// digitsOf extracts the digit characters of a value.
func digitsOf(value string) string {
	var sb strings.Builder
	for _, ch := range value {
		if unicode.IsDigit(ch) {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
