package models

import "github.com/shopspring/decimal"

// IncomeRow is the export shape of an incoming transaction.
type IncomeRow struct {
	Day           int
	Description   string
	PaidIn        decimal.NullDecimal
	SecondaryInfo string
}

// OutgoingRow is the export shape of an outgoing transaction.
type OutgoingRow struct {
	Day          int
	Description  string
	Subkind      string
	ChequeNumber string
	PaidOut      decimal.NullDecimal
}

// Partition is a statement split by direction, ready for export.
type Partition struct {
	Income   []IncomeRow
	Outgoing []OutgoingRow
}

// Len returns the number of rows on both sides.
func (p Partition) Len() int {
	return len(p.Income) + len(p.Outgoing)
}

// Split drops no-match entries and splits the rest by direction,
// keeping statement order on each side.
func Split(entries []Entry) Partition {
	var p Partition
	for _, e := range entries {
		t, ok := e.Transaction()
		if !ok {
			continue
		}
		switch t.Direction {
		case Income:
			p.Income = append(p.Income, IncomeRow{
				Day:           t.Day,
				Description:   t.Description,
				PaidIn:        t.PaidIn,
				SecondaryInfo: t.SecondaryInfo,
			})
		case Outgoing:
			p.Outgoing = append(p.Outgoing, OutgoingRow{
				Day:          t.Day,
				Description:  t.Description,
				Subkind:      t.SecondaryInfo,
				ChequeNumber: t.ChequeNumber,
				PaidOut:      t.PaidOut,
			})
		}
	}
	return p
}
