package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestSplit(t *testing.T) {
	entries := []Entry{
		Matched(NewIncome(KindCredit, 1, "Salary", "Ref123", amount("5000.00"))),
		NoMatch(),
		Matched(NewOutgoing(KindCheque, 2, "", "000123", amount("45.00"))),
		Matched(NewOutgoing(KindDirectDebit, 3, "SKY UK", "", amount("20.00"))),
		NoMatch(),
	}

	p := Split(entries)
	require.Len(t, p.Income, 1)
	require.Len(t, p.Outgoing, 2)
	assert.Equal(t, 3, p.Len())

	in := p.Income[0]
	assert.Equal(t, 1, in.Day)
	assert.Equal(t, "Salary", in.Description)
	assert.Equal(t, "Ref123", in.SecondaryInfo)
	assert.True(t, in.PaidIn.Decimal.Equal(decimal.RequireFromString("5000")))

	chq := p.Outgoing[0]
	assert.Equal(t, "Cheque", chq.Subkind)
	assert.Equal(t, "000123", chq.ChequeNumber)
	assert.Equal(t, "", chq.Description)

	assert.Equal(t, "Direct Debit", p.Outgoing[1].Subkind)
}

func TestSplit_Empty(t *testing.T) {
	p := Split([]Entry{NoMatch(), NoMatch()})
	assert.Empty(t, p.Income)
	assert.Empty(t, p.Outgoing)
	assert.Zero(t, p.Len())
}

func TestTransactionAmountColumns(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		in   bool
		out  bool
	}{
		{"income sets paid in", NewIncome(KindPayment, 5, "Refund", "", amount("1.00")), true, false},
		{"outgoing sets paid out", NewOutgoing(KindPurchase, 5, "Coffee", "", amount("2.50")), false, true},
		{"absent amount sets neither", NewOutgoing(KindStandingOrder, 5, "Rent ", "", decimal.NullDecimal{}), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.in, tt.txn.PaidIn.Valid)
			assert.Equal(t, tt.out, tt.txn.PaidOut.Valid)
			assert.Equal(t, tt.txn.Kind.Direction(), tt.txn.Direction)
		})
	}
}

func TestEntry(t *testing.T) {
	_, ok := NoMatch().Transaction()
	assert.False(t, ok)

	txn, ok := Matched(NewIncome(KindCredit, 9, "X", "", decimal.NullDecimal{})).Transaction()
	assert.True(t, ok)
	assert.Equal(t, 9, txn.Day)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Standing Order", KindStandingOrder.Label())
	assert.Equal(t, "None", KindNone.String())
	assert.Equal(t, Income, KindPayment.Direction())
	assert.Equal(t, Outgoing, KindTransfer.Direction())
}
