package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

// HSBC statements come out of text extraction as plain lines:
//
//	01 Jan 23 CR SALARY EMPLOYER LTD
//	5,000.00 REF123
//	DD SKY UK LIMITED 45.00 4,955.00
//	02 Jan 23 CHQ 000123 45.00
//	SO RENT
//	SO GYM 10.00 4,900.00
//
// A date header (DD Mon YY) opens a day and is followed by the first
// transaction of that day; later lines of the same day carry no date. Each
// transaction line starts with its type code: CR (credit), DD (direct
// debit), SO (standing order) or CHQ (cheque).

var hsbcHeaderPattern = regexp.MustCompile(`^(\d{2} \w{3} \d{2})(?:\s+(.*))?$`)

var hsbcBalanceMarkers = []string{"BALANCEBROUGHTFORWARD", "BALANCECARRIEDFORWARD"}

func newHSBCFormat() *Format {
	return &Format{
		Bank:        models.BankHSBC,
		Name:        "HSBC",
		layout:      models.LayoutText,
		dateLayout:  layoutShortYear,
		inheritDate: true,
		keepNoMatch: true,
		rules: []Rule{
			prefixRule(models.KindCredit, "CR"),
			prefixRule(models.KindDirectDebit, "DD"),
			prefixRule(models.KindStandingOrder, "SO"),
			prefixRule(models.KindCheque, "CHQ"),
		},
		units: hsbcUnits,
	}
}

func hsbcUnits(doc *models.Document) ([]unit, error) {
	var units []unit
	for i, line := range doc.Lines {
		line = normalizeLine(line)
		if line == "" {
			continue
		}
		u := unit{num: i + 1, raw: line, body: line}
		if isBalanceLine(line) {
			u.skip = true
		} else if m := hsbcHeaderPattern.FindStringSubmatch(line); m != nil {
			u.dateToken = m[1]
			u.body = strings.TrimSpace(m[2])
		}
		units = append(units, u)
	}
	return units, nil
}

// isBalanceLine checks for brought/carried forward lines. Extraction often
// drops the spaces inside them, so compare with spaces removed.
func isBalanceLine(line string) bool {
	squashed := strings.ToUpper(strings.Join(strings.Fields(line), ""))
	for _, m := range hsbcBalanceMarkers {
		if strings.Contains(squashed, m) {
			return true
		}
	}
	return false
}
