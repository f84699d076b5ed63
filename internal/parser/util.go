package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmountToken parses a single whitespace token such as "1,234.56".
// Comma thousands separators are tolerated; anything else must be a plain
// decimal literal.
func parseAmountToken(tok string) (decimal.Decimal, bool) {
	tok = strings.ReplaceAll(tok, ",", "")
	if tok == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(tok)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ExtractAmount picks the transaction amount out of a line's tokens.
//
// Every token that parses as a number is kept in order. With two or more
// numbers the second-to-last one is returned, since the last numeric column
// on these statements is the running balance. With exactly one it is
// returned as is.
func ExtractAmount(tokens []string) (decimal.Decimal, bool) {
	var numbers []decimal.Decimal
	for _, tok := range tokens {
		if d, ok := parseAmountToken(tok); ok {
			numbers = append(numbers, d)
		}
	}
	switch len(numbers) {
	case 0:
		return decimal.Decimal{}, false
	case 1:
		return numbers[0], true
	default:
		return numbers[len(numbers)-2], true
	}
}

// extractNullAmount is ExtractAmount in the shape the models expect.
func extractNullAmount(tokens []string) decimal.NullDecimal {
	d, ok := ExtractAmount(tokens)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// isNumericToken reports whether tok is digits once "," and "." are removed.
// It is deliberately narrower than parseAmountToken: "-5.00" stays text.
func isNumericToken(tok string) bool {
	s := strings.NewReplacer(",", "", ".", "").Replace(tok)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// joinText joins the tokens that are not numeric with single spaces.
func joinText(tokens []string) string {
	var parts []string
	for _, tok := range tokens {
		if !isNumericToken(tok) {
			parts = append(parts, tok)
		}
	}
	return strings.Join(parts, " ")
}

// parseAmountCell converts a table cell like "-£1,234.56" or "+£3.00".
// Currency symbols and sign characters are dropped: the direction of a
// tabular transaction never comes from its sign.
func parseAmountCell(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "+", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space

	d, ok := parseAmountToken(s)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	return strings.TrimSpace(line)
}

// firstLine returns the text before the first newline.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
