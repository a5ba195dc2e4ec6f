// pkg/format/analyzer_test.go
package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/phi-cleanse/pkg/model"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		expectedTokens []model.TokenSpec
		expectedSeps   []model.SeparatorSpec
		expectedCase   model.CasePattern
	}{
		{
			name:  "ssn with dashes",
			value: "123-45-6789",
			expectedTokens: []model.TokenSpec{
				{Length: 3, Class: model.TokenDigits},
				{Length: 2, Class: model.TokenDigits},
				{Length: 4, Class: model.TokenDigits},
			},
			expectedSeps: []model.SeparatorSpec{
				{Position: 3, Char: '-'},
				{Position: 6, Char: '-'},
			},
			expectedCase: model.CaseNone,
		},
		{
			name:  "plain digits",
			value: "123456789",
			expectedTokens: []model.TokenSpec{
				{Length: 9, Class: model.TokenDigits},
			},
			expectedSeps: []model.SeparatorSpec{},
			expectedCase: model.CaseNone,
		},
		{
			name:  "title case name",
			value: "Mary",
			expectedTokens: []model.TokenSpec{
				{Length: 4, Class: model.TokenAlpha},
			},
			expectedSeps: []model.SeparatorSpec{},
			expectedCase: model.CaseTitle,
		},
		{
			name:  "two word title case",
			value: "Mary Smith",
			expectedTokens: []model.TokenSpec{
				{Length: 4, Class: model.TokenAlpha},
				{Length: 5, Class: model.TokenAlpha},
			},
			expectedSeps: []model.SeparatorSpec{
				{Position: 4, Char: ' '},
			},
			expectedCase: model.CaseTitle,
		},
		{
			name:  "upper case identifier with prefix",
			value: "AB12345",
			expectedTokens: []model.TokenSpec{
				{Length: 2, Class: model.TokenAlpha},
				{Length: 5, Class: model.TokenDigits},
			},
			expectedSeps: []model.SeparatorSpec{},
			expectedCase: model.CaseUpper,
		},
		{
			name:  "lower case email",
			value: "jd@x.io",
			expectedTokens: []model.TokenSpec{
				{Length: 2, Class: model.TokenAlpha},
				{Length: 1, Class: model.TokenAlpha},
				{Length: 2, Class: model.TokenAlpha},
			},
			expectedSeps: []model.SeparatorSpec{
				{Position: 2, Char: '@'},
				{Position: 4, Char: '.'},
			},
			expectedCase: model.CaseLower,
		},
		{
			name:  "mixed case",
			value: "McDonald",
			expectedTokens: []model.TokenSpec{
				{Length: 8, Class: model.TokenAlpha},
			},
			expectedSeps: []model.SeparatorSpec{},
			expectedCase: model.CaseMixed,
		},
		{
			name:  "parenthesized phone",
			value: "(555) 123-4567",
			expectedTokens: []model.TokenSpec{
				{Length: 3, Class: model.TokenDigits},
				{Length: 3, Class: model.TokenDigits},
				{Length: 4, Class: model.TokenDigits},
			},
			expectedSeps: []model.SeparatorSpec{
				{Position: 0, Char: '('},
				{Position: 4, Char: ')'},
				{Position: 5, Char: ' '},
				{Position: 9, Char: '-'},
			},
			expectedCase: model.CaseNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Analyze(tt.value)
			assert.False(t, sig.IsNull)
			if len(tt.expectedTokens) == 0 {
				assert.Empty(t, sig.Tokens)
			} else {
				assert.Equal(t, tt.expectedTokens, sig.Tokens)
			}
			if len(tt.expectedSeps) == 0 {
				assert.Empty(t, sig.Separators)
			} else {
				assert.Equal(t, tt.expectedSeps, sig.Separators)
			}
			assert.Equal(t, tt.expectedCase, sig.Case)
		})
	}
}

func TestAnalyzeNullValues(t *testing.T) {
	for _, value := range []string{"", "   ", "\t\n"} {
		sig := Analyze(value)
		assert.True(t, sig.IsNull, "value %q should be null", value)
		assert.Empty(t, sig.Tokens)
	}
}

func TestAnalyzeClassBoundarySplit(t *testing.T) {
	// Adjacent runs of different classes split without an explicit separator.
	sig := Analyze("abc123def")
	require.Len(t, sig.Tokens, 3)
	assert.Equal(t, model.TokenAlpha, sig.Tokens[0].Class)
	assert.Equal(t, model.TokenDigits, sig.Tokens[1].Class)
	assert.Equal(t, model.TokenAlpha, sig.Tokens[2].Class)
	assert.Empty(t, sig.Separators)
}

func TestSignatureEqual(t *testing.T) {
	tests := []struct {
		name  string
		a     string
		b     string
		equal bool
	}{
		{name: "same structure different digits", a: "123-45-6789", b: "987-12-3456", equal: true},
		{name: "same structure different letters", a: "Mary", b: "Anna", equal: true},
		{name: "different token lengths", a: "Mary", b: "Jo", equal: false},
		{name: "different separators", a: "123-45-6789", b: "123.45.6789", equal: false},
		{name: "different case pattern", a: "Mary", b: "MARY", equal: false},
		{name: "dashed vs plain", a: "123-45-6789", b: "123456789", equal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Analyze(tt.a).Equal(Analyze(tt.b)))
		})
	}
}
