package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

var (
	// ErrUnsupportedBank is returned for a bank selector with no format.
	ErrUnsupportedBank = errors.New("unsupported bank")
	// ErrMalformedEntry marks a structural fault in the extracted input,
	// such as a table row missing a cell.
	ErrMalformedEntry = errors.New("malformed statement entry")
)

// Parser defines the interface for bank statement parsers.
type Parser interface {
	// Parse scans extracted statement content and returns its transactions.
	Parse(doc *models.Document) (*models.Statement, error)
	// BankName returns the human-readable bank name.
	BankName() string
	// Layout reports whether the parser reads text lines or table rows.
	Layout() models.Layout
}

// New returns the appropriate parser for the given bank type.
func New(bankType models.BankType) (Parser, error) {
	switch bankType {
	case models.BankHSBC:
		return newHSBCFormat(), nil
	case models.BankChase:
		return newChaseFormat(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBank, bankType)
	}
}

// ParseBank maps a user-supplied selector such as "HSBC" to a bank type.
func ParseBank(selector string) (models.BankType, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "hsbc":
		return models.BankHSBC, nil
	case "chase":
		return models.BankChase, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: hsbc, chase)", ErrUnsupportedBank, selector)
	}
}

// SupportedBanks lists the display names of every bank format.
func SupportedBanks() []string {
	return []string{"HSBC", "Chase"}
}

var bankMarkers = []struct {
	bank    models.BankType
	pattern *regexp.Regexp
}{
	{models.BankHSBC, regexp.MustCompile(`(?i)\bhsbc\b|hsbc\.co\.uk`)},
	// Word boundaries keep "Purchase" from reading as Chase.
	{models.BankChase, regexp.MustCompile(`(?i)\bchase\b|chase\.co\.uk|\bJPMorgan\b`)},
}

// AutoDetect tries to identify the bank from the extracted text.
func AutoDetect(text string) (models.BankType, error) {
	for _, m := range bankMarkers {
		if m.pattern.MatchString(text) {
			return m.bank, nil
		}
	}
	return "", fmt.Errorf("could not auto-detect bank from statement content; please specify --bank flag")
}
