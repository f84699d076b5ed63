package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

// Column names are kept exactly as earlier exports spelled them, so
// spreadsheets built on those files keep working.
var (
	IncomeHeader   = []string{"Date", "Description", "Payed In", "Additional Info"}
	OutgoingHeader = []string{"Date", "Description", "Type", "Cheque Number", "Payed Out"}
)

// CSVWriter writes a partitioned statement as one CSV per direction.
type CSVWriter struct{}

// WriteIncome writes the income header and rows to out.
func (w *CSVWriter) WriteIncome(out io.Writer, rows []models.IncomeRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, incomeRecord(r))
	}
	return writeCSV(out, IncomeHeader, records)
}

// WriteOutgoing writes the outgoing header and rows to out.
func (w *CSVWriter) WriteOutgoing(out io.Writer, rows []models.OutgoingRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, outgoingRecord(r))
	}
	return writeCSV(out, OutgoingHeader, records)
}

// WriteFiles writes <period>INCOME.csv and <period>OUTGOING.csv into dir and
// returns the paths written. A side with no rows produces no file.
func (w *CSVWriter) WriteFiles(dir, period string, p models.Partition) ([]string, error) {
	var written []string
	if len(p.Income) > 0 {
		path := filepath.Join(dir, period+"INCOME.csv")
		if err := writeFile(path, func(f io.Writer) error { return w.WriteIncome(f, p.Income) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if len(p.Outgoing) > 0 {
		path := filepath.Join(dir, period+"OUTGOING.csv")
		if err := writeFile(path, func(f io.Writer) error { return w.WriteOutgoing(f, p.Outgoing) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(out io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func incomeRecord(r models.IncomeRow) []string {
	return []string{strconv.Itoa(r.Day), r.Description, formatAmount(r.PaidIn), r.SecondaryInfo}
}

func outgoingRecord(r models.OutgoingRow) []string {
	return []string{strconv.Itoa(r.Day), r.Description, r.Subkind, r.ChequeNumber, formatAmount(r.PaidOut)}
}

// formatAmount renders a present amount with two decimals and an absent
// one as an empty cell.
func formatAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return amount.Decimal.StringFixed(2)
}
