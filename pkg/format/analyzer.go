// pkg/format/analyzer.go
package format

import (
	"strings"
	"unicode"

	"github.com/careops/phi-cleanse/pkg/model"
)

// Analyze derives the structural signature of a raw value: maximal
// alphanumeric runs split at character-class boundaries or literal
// separators, separator positions, and the overall casing pattern.
// Classification is per rune, so mixed-width and non-ASCII input is handled
// correctly. Empty or whitespace-only values produce a null signature, which
// tells generators to fall back to the catalog-default shape.
func Analyze(value string) model.FormatSignature {
	if strings.TrimSpace(value) == "" {
		return model.FormatSignature{IsNull: true, Case: model.CaseNone}
	}

	var (
		tokens     []model.TokenSpec
		separators []model.SeparatorSpec
		letterRuns []string
		runLen     int
		runClass   model.TokenClass
		letters    strings.Builder
	)

	flushToken := func() {
		if runLen > 0 {
			tokens = append(tokens, model.TokenSpec{Length: runLen, Class: runClass})
			runLen = 0
		}
	}
	flushLetters := func() {
		if letters.Len() > 0 {
			letterRuns = append(letterRuns, letters.String())
			letters.Reset()
		}
	}

	for i, r := range []rune(value) {
		var class model.TokenClass
		switch {
		case unicode.IsDigit(r):
			class = model.TokenDigits
		case unicode.IsLetter(r):
			class = model.TokenAlpha
		default:
			// Any non-alphanumeric rune acts as a literal separator.
			flushToken()
			flushLetters()
			separators = append(separators, model.SeparatorSpec{Position: i, Char: r})
			continue
		}

		if runLen > 0 && class != runClass {
			flushToken()
		}
		runClass = class
		runLen++

		if class == model.TokenAlpha {
			letters.WriteRune(r)
		} else {
			flushLetters()
		}
	}
	flushToken()
	flushLetters()

	return model.FormatSignature{
		Tokens:     tokens,
		Separators: separators,
		Case:       casePattern(letterRuns),
	}
}

// casePattern classifies the letter casing across all alpha runs of a value.
func casePattern(runs []string) model.CasePattern {
	if len(runs) == 0 {
		return model.CaseNone
	}

	allUpper := true
	allLower := true
	allTitle := true

	for _, run := range runs {
		for i, r := range run {
			upper := unicode.IsUpper(r)
			lower := unicode.IsLower(r)
			if !upper {
				allUpper = false
			}
			if !lower {
				allLower = false
			}
			if i == 0 {
				if !upper {
					allTitle = false
				}
			} else if !lower {
				allTitle = false
			}
		}
	}

	switch {
	case allUpper:
		return model.CaseUpper
	case allLower:
		return model.CaseLower
	case allTitle:
		return model.CaseTitle
	default:
		return model.CaseMixed
	}
}
