package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

const (
	IncomeSheet   = "Income"
	OutgoingSheet = "Outgoing"
)

// XLSXWriter writes both sides of a statement into one workbook, one sheet
// per direction. Amounts are stored as numbers so the sheet can sum them.
type XLSXWriter struct{}

// Write renders the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, p models.Partition) error {
	f, err := w.build(p)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes <period>.xlsx into dir and returns its path.
func (w *XLSXWriter) WriteFile(dir, period string, p models.Partition) (string, error) {
	path := filepath.Join(dir, period+".xlsx")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(out, p); err != nil {
		out.Close()
		return "", err
	}
	return path, out.Close()
}

func (w *XLSXWriter) build(p models.Partition) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet is renamed rather than deleted so the workbook
	// always keeps an active sheet.
	if err := f.SetSheetName(f.GetSheetName(0), IncomeSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(OutgoingSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	income := make([][]any, 0, len(p.Income))
	for _, r := range p.Income {
		income = append(income, []any{r.Day, r.Description, cellAmount(r.PaidIn), r.SecondaryInfo})
	}
	outgoing := make([][]any, 0, len(p.Outgoing))
	for _, r := range p.Outgoing {
		outgoing = append(outgoing, []any{r.Day, r.Description, r.Subkind, r.ChequeNumber, cellAmount(r.PaidOut)})
	}

	if err := writeSheet(f, IncomeSheet, IncomeHeader, income); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, OutgoingSheet, OutgoingHeader, outgoing); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cellAmount returns nil for an absent amount, which excelize leaves blank.
func cellAmount(amount decimal.NullDecimal) any {
	if !amount.Valid {
		return nil
	}
	v, _ := amount.Decimal.Round(2).Float64()
	return v
}
