package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireAmount checks that got holds the decimal want.
func requireAmount(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected amount %s, got none", want)
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal),
		"got %s, want %s", got.Decimal.String(), want)
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
		found  bool
	}{
		{"two numbers picks second-to-last", []string{"123.45", "67.00"}, "123.45", true},
		{"single number", []string{"50.00"}, "50.00", true},
		{"no numbers", []string{"abc", "def"}, "", false},
		{"empty", nil, "", false},
		{"balance column skipped", []string{"DD", "SKY", "45.00", "1,189.56"}, "45.00", true},
		{"three numbers", []string{"REF", "42", "750.00", "1,250.00"}, "750.00", true},
		{"thousands separators", []string{"1,234,567.89"}, "1234567.89", true},
		{"signed token still parses", []string{"-5.00", "x"}, "-5.00", true},
		{"text between numbers", []string{"10.00", "and", "20.00", "then", "30.00"}, "20.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAmount(tt.tokens)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsNumericToken(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"25.99", true},
		{"1,234.56", true},
		{"000123", true},
		{"-5.00", false},
		{"£5.00", false},
		{"Ref123", false},
		{"", false},
		{".,", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, isNumericToken(tt.input))
		})
	}
}

func TestJoinText(t *testing.T) {
	assert.Equal(t, "SKY UK", joinText([]string{"SKY", "45.00", "UK", "1,189.56"}))
	assert.Equal(t, "", joinText([]string{"1.00"}))
}

func TestParseAmountCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"£12.50", "12.50", true},
		{"-£1,234.56", "1234.56", true},
		{"+£3.00", "3.00", true},
		{" 25.99 ", "25.99", true},
		{"£", "", false},
		{"n/a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseAmountCell(tt.input)
			if !tt.valid {
				assert.False(t, got.Valid)
				return
			}
			requireAmount(t, tt.want, got)
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Purchase", firstLine("Purchase\nCoffee Shop"))
	assert.Equal(t, "Purchase", firstLine("Purchase\r\nCoffee Shop"))
	assert.Equal(t, "Transfer", firstLine("Transfer"))
}
