package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

// assemble builds the entry for one classified unit. It returns how many
// units it used: 1, or 2 when a continuation line was folded in.
func (f *Format) assemble(kind models.Kind, day int, cur unit, next *unit) (models.Entry, int, error) {
	if f.layout == models.LayoutTable {
		return assembleRow(kind, day, cur), 1, nil
	}

	switch kind {
	case models.KindCredit:
		desc, info, amt, n := f.lookahead(cur, next)
		return models.Matched(models.NewIncome(kind, day, desc, info, amt)), n, nil

	case models.KindStandingOrder:
		desc, info, amt, n := f.lookahead(cur, next)
		// The separator stays even when info is empty.
		return models.Matched(models.NewOutgoing(kind, day, desc+" "+info, "", amt)), n, nil

	case models.KindDirectDebit:
		tokens := strings.Fields(cur.body)
		return models.Matched(models.NewOutgoing(kind, day, joinText(tokens[1:]), "", extractNullAmount(tokens))), 1, nil

	case models.KindCheque:
		tokens := strings.Fields(cur.body)
		if len(tokens) < 3 {
			return models.Entry{}, 0, fmt.Errorf("%w: cheque line needs a number and an amount", ErrMalformedEntry)
		}
		var amt decimal.NullDecimal
		if d, ok := parseAmountToken(tokens[2]); ok {
			amt = decimal.NewNullDecimal(d)
		}
		return models.Matched(models.NewOutgoing(kind, day, "", tokens[1], amt)), 1, nil

	default:
		return models.NoMatch(), 1, nil
	}
}

// lookahead resolves a two-letter-prefixed line whose amount may sit on the
// following line. It is a pure function of the two lines.
//
// When next is a continuation its numbers supply the amount and its words
// the secondary info; with no number at all its text extends the
// description instead. Either way the continuation is used up. Otherwise
// everything comes from the current line.
func (f *Format) lookahead(cur unit, next *unit) (desc, info string, amt decimal.NullDecimal, consumed int) {
	tokens := strings.Fields(cur.body)
	if !f.isContinuation(next) {
		return joinText(tokens[1:]), "", extractNullAmount(tokens), 1
	}

	desc = strings.TrimSpace(cur.body[2:])
	nextTokens := strings.Fields(next.body)
	if d, ok := ExtractAmount(nextTokens); ok {
		return desc, joinText(nextTokens), decimal.NewNullDecimal(d), 2
	}
	return desc + " " + strings.TrimSpace(next.body), "", decimal.NullDecimal{}, 2
}

// isContinuation reports whether next can only be the tail of the line
// before it: not a transaction of its own, not a new date, not furniture.
func (f *Format) isContinuation(next *unit) bool {
	if next == nil || next.skip || next.dateToken != "" {
		return false
	}
	if strings.TrimSpace(next.body) == "" {
		return false
	}
	return f.classify(next.body) == models.KindNone
}

// assembleRow builds a transaction from a table row. Direction comes from
// the kind alone, whatever sign the amount cell carried.
func assembleRow(kind models.Kind, day int, cur unit) models.Entry {
	desc := strings.TrimSpace(firstLine(cur.body))
	amt := parseAmountCell(cur.amount)

	switch kind {
	case models.KindPurchase, models.KindTransfer, models.KindDirectDebit:
		return models.Matched(models.NewOutgoing(kind, day, desc, "", amt))
	case models.KindPayment:
		return models.Matched(models.NewIncome(kind, day, desc, "", amt))
	default:
		return models.NoMatch()
	}
}
