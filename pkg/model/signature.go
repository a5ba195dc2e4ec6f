// pkg/model/signature.go
package model

// TokenClass categorizes the characters inside a single token run.
type TokenClass int

const (
	TokenDigits TokenClass = iota
	TokenAlpha
	TokenAlnum
)

// String returns a string representation of the token class.
func (tc TokenClass) String() string {
	switch tc {
	case TokenDigits:
		return "digits"
	case TokenAlpha:
		return "alpha"
	case TokenAlnum:
		return "alnum"
	default:
		return "unknown"
	}
}

// CasePattern describes the overall letter casing of a value.
type CasePattern int

const (
	CaseNone CasePattern = iota // No letters present
	CaseUpper
	CaseLower
	CaseTitle
	CaseMixed
)

// String returns a string representation of the case pattern.
func (cp CasePattern) String() string {
	switch cp {
	case CaseNone:
		return "none"
	case CaseUpper:
		return "upper"
	case CaseLower:
		return "lower"
	case CaseTitle:
		return "title"
	case CaseMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// TokenSpec describes one maximal alphanumeric run of a value.
type TokenSpec struct {
	Length int // Length in runes
	Class  TokenClass
}

// SeparatorSpec is a literal separator rune at a fixed rune position.
type SeparatorSpec struct {
	Position int // Rune index within the original value
	Char     rune
}

// FormatSignature is the structural description of a value used to constrain
// synthetic generation. It is derived per value and never persisted.
type FormatSignature struct {
	IsNull     bool // Empty or whitespace-only source value
	Tokens     []TokenSpec
	Separators []SeparatorSpec
	Case       CasePattern
}

// TokenLengths returns the ordered token lengths of the signature.
func (s FormatSignature) TokenLengths() []int {
	lengths := make([]int, len(s.Tokens))
	for i, t := range s.Tokens {
		lengths[i] = t.Length
	}
	return lengths
}

// DigitCount returns the total number of digit characters across tokens.
func (s FormatSignature) DigitCount() int {
	n := 0
	for _, t := range s.Tokens {
		if t.Class == TokenDigits {
			n += t.Length
		}
	}
	return n
}

// Equal reports whether two signatures agree on token lengths and classes,
// separator characters and positions, and case pattern.
func (s FormatSignature) Equal(other FormatSignature) bool {
	if s.IsNull != other.IsNull || s.Case != other.Case {
		return false
	}
	if len(s.Tokens) != len(other.Tokens) || len(s.Separators) != len(other.Separators) {
		return false
	}
	for i, t := range s.Tokens {
		if t != other.Tokens[i] {
			return false
		}
	}
	for i, sep := range s.Separators {
		if sep != other.Separators[i] {
			return false
		}
	}
	return true
}
