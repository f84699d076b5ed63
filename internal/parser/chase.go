package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

// Chase statements are extracted as a table of three cells per row:
//
//	Date          | Transaction details            | Amount
//	01 Jan 2023   | Purchase\nCoffee Shop London   | -£12.50
//	02 Jan 2023   | Payment from J SMITH           | +£100.00
//
// Every row carries its own date (DD Mon YYYY). The details cell may span
// several lines; the first line names the transaction type.

func newChaseFormat() *Format {
	return &Format{
		Bank:       models.BankChase,
		Name:       "Chase",
		layout:     models.LayoutTable,
		dateLayout: layoutLongYear,
		rules: []Rule{
			keywordRule(models.KindPurchase, "Purchase"),
			keywordRule(models.KindTransfer, "Transfer"),
			keywordRule(models.KindPayment, "Payment"),
			keywordRule(models.KindDirectDebit, "Direct Debit"),
		},
		units: chaseUnits,
	}
}

func chaseUnits(doc *models.Document) ([]unit, error) {
	units := make([]unit, 0, len(doc.Rows))
	for i, row := range doc.Rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d has %d cells, want 3: %w", i+1, len(row), ErrMalformedEntry)
		}
		units = append(units, unit{
			num:       i + 1,
			raw:       strings.TrimSpace(strings.Join(row[:3], " | ")),
			dateToken: strings.TrimSpace(row[0]),
			body:      row[1],
			amount:    row[2],
		})
	}
	return units, nil
}
