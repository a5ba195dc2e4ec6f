// pkg/generator/shape.go
package generator

import (
	"strings"
	"unicode"

	"github.com/careops/phi-cleanse/pkg/model"
)

// buildFromSignature assembles a value that mirrors the signature exactly:
// same token count and lengths, same separator characters at the same
// positions. Token content comes from fill; letter casing is copied
// position-by-position from the original, which reproduces upper, lower,
// title and mixed patterns alike.
func (r *Registry) buildFromSignature(sig model.FormatSignature, original string, fill func(i int, spec model.TokenSpec) string) string {
	total := len(sig.Separators)
	for _, t := range sig.Tokens {
		total += t.Length
	}

	sepAt := make(map[int]rune, len(sig.Separators))
	for _, s := range sig.Separators {
		sepAt[s.Position] = s.Char
	}

	out := make([]rune, total)
	tokenIdx := 0
	var pending []rune

	for pos := 0; pos < total; pos++ {
		if ch, ok := sepAt[pos]; ok {
			out[pos] = ch
			continue
		}
		if len(pending) == 0 && tokenIdx < len(sig.Tokens) {
			spec := sig.Tokens[tokenIdx]
			pending = r.fitToToken(fill(tokenIdx, spec), spec)
			tokenIdx++
		}
		if len(pending) > 0 {
			out[pos] = pending[0]
			pending = pending[1:]
		} else {
			out[pos] = 'x'
		}
	}

	return applyCaseMask(original, string(out))
}

// fitToToken trims or extends generated content to the exact token length,
// keeping only characters of the token's class.
func (r *Registry) fitToToken(content string, spec model.TokenSpec) []rune {
	runes := filterClass([]rune(content), spec.Class)
	for len(runes) < spec.Length {
		var extra string
		if spec.Class == model.TokenDigits {
			extra = r.faker.DigitN(8)
		} else {
			extra = strings.ToLower(r.faker.LetterN(8))
		}
		runes = append(runes, filterClass([]rune(extra), spec.Class)...)
	}
	return runes[:spec.Length]
}

// filterClass drops runes that do not belong to the token class.
func filterClass(runes []rune, class model.TokenClass) []rune {
	kept := runes[:0]
	for _, ch := range runes {
		switch class {
		case model.TokenDigits:
			if unicode.IsDigit(ch) {
				kept = append(kept, ch)
			}
		case model.TokenAlpha:
			if unicode.IsLetter(ch) {
				kept = append(kept, ch)
			}
		default:
			if unicode.IsDigit(ch) || unicode.IsLetter(ch) {
				kept = append(kept, ch)
			}
		}
	}
	return kept
}

// applyCaseMask copies the per-position letter casing of the original onto
// the generated value. Positions align because the generated value mirrors
// the original's structure.
func applyCaseMask(original, generated string) string {
	origRunes := []rune(original)
	genRunes := []rune(generated)

	for i := range genRunes {
		if i >= len(origRunes) {
			break
		}
		if !unicode.IsLetter(origRunes[i]) || !unicode.IsLetter(genRunes[i]) {
			continue
		}
		if unicode.IsUpper(origRunes[i]) {
			genRunes[i] = unicode.ToUpper(genRunes[i])
		} else if unicode.IsLower(origRunes[i]) {
			genRunes[i] = unicode.ToLower(genRunes[i])
		}
	}

	return string(genRunes)
}

// adjustCase applies a coarse case pattern to a freshly generated value when
// no positional mask is available (closed-vocabulary generators).
func adjustCase(value string, pattern model.CasePattern) string {
	switch pattern {
	case model.CaseUpper:
		return strings.ToUpper(value)
	case model.CaseLower:
		return strings.ToLower(value)
	default:
		return value
	}
}
