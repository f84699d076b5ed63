package models

import (
	"github.com/shopspring/decimal"
)

// Direction says whether money came into or left the account.
type Direction string

const (
	Income   Direction = "IN"
	Outgoing Direction = "OUT"
)

// Kind is the transaction kind a statement line or row was classified as.
type Kind int

const (
	KindNone Kind = iota
	KindCredit
	KindDirectDebit
	KindStandingOrder
	KindCheque
	KindPurchase
	KindTransfer
	KindPayment
)

// Label returns the human-readable kind, used as the outgoing "Type" column.
func (k Kind) Label() string {
	switch k {
	case KindCredit:
		return "Credit"
	case KindDirectDebit:
		return "Direct Debit"
	case KindStandingOrder:
		return "Standing Order"
	case KindCheque:
		return "Cheque"
	case KindPurchase:
		return "Purchase"
	case KindTransfer:
		return "Transfer"
	case KindPayment:
		return "Payment"
	default:
		return ""
	}
}

// Direction returns the money direction implied by the kind.
func (k Kind) Direction() Direction {
	switch k {
	case KindCredit, KindPayment:
		return Income
	default:
		return Outgoing
	}
}

func (k Kind) String() string {
	if l := k.Label(); l != "" {
		return l
	}
	return "None"
}

// Transaction is a single assembled statement transaction.
// Build it with NewIncome or NewOutgoing; only the amount column matching
// Direction is ever set.
type Transaction struct {
	Direction     Direction           `json:"direction"`
	Kind          Kind                `json:"kind"`
	Day           int                 `json:"day"`
	Description   string              `json:"description"`
	SecondaryInfo string              `json:"secondaryInfo,omitempty"`
	ChequeNumber  string              `json:"chequeNumber,omitempty"`
	PaidIn        decimal.NullDecimal `json:"paidIn"`
	PaidOut       decimal.NullDecimal `json:"paidOut"`
}

// NewIncome builds an incoming transaction. info is free narrative.
func NewIncome(kind Kind, day int, description, info string, amount decimal.NullDecimal) Transaction {
	return Transaction{
		Direction:     Income,
		Kind:          kind,
		Day:           day,
		Description:   description,
		SecondaryInfo: info,
		PaidIn:        amount,
	}
}

// NewOutgoing builds an outgoing transaction. The secondary info of an
// outgoing transaction is always its kind label.
func NewOutgoing(kind Kind, day int, description, chequeNumber string, amount decimal.NullDecimal) Transaction {
	return Transaction{
		Direction:     Outgoing,
		Kind:          kind,
		Day:           day,
		Description:   description,
		SecondaryInfo: kind.Label(),
		ChequeNumber:  chequeNumber,
		PaidOut:       amount,
	}
}

// Amount returns whichever amount column the direction uses.
func (t Transaction) Amount() decimal.NullDecimal {
	if t.Direction == Income {
		return t.PaidIn
	}
	return t.PaidOut
}

// Entry is one scan result: either a transaction or an explicit no-match.
type Entry struct {
	txn     Transaction
	matched bool
}

// Matched wraps an assembled transaction.
func Matched(t Transaction) Entry {
	return Entry{txn: t, matched: true}
}

// NoMatch marks a line that was read under a date but is not a transaction.
func NoMatch() Entry {
	return Entry{}
}

// Transaction returns the wrapped transaction and whether there is one.
func (e Entry) Transaction() (Transaction, bool) {
	return e.txn, e.matched
}

// BankType represents supported bank statement formats.
type BankType string

const (
	BankHSBC  BankType = "hsbc"
	BankChase BankType = "chase"
)

// Layout is the shape of the extracted content a bank format consumes.
type Layout int

const (
	// LayoutText is a sequence of raw text lines.
	LayoutText Layout = iota
	// LayoutTable is a sequence of 3-cell rows: date, details, amount.
	LayoutTable
)

// Document is the extracted content of one statement.
type Document struct {
	Lines []string
	Rows  [][]string
}

// DebugLine captures what the parser did with each input line or row.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	HasDate bool   `json:"hasDate"`
	Result  string `json:"result"` // "parsed", "unmatched", "skipped", "continuation", "header"
	Method  string `json:"method,omitempty"`
}

// Statement holds the result of one scan.
type Statement struct {
	Bank       BankType
	Period     string
	Entries    []Entry
	DebugLines []DebugLine
}

// Transactions returns the matched transactions in order.
func (s *Statement) Transactions() []Transaction {
	var out []Transaction
	for _, e := range s.Entries {
		if t, ok := e.Transaction(); ok {
			out = append(out, t)
		}
	}
	return out
}
