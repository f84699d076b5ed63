package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-splitter/internal/config"
	"github.com/insightdelivered/statement-splitter/internal/extractor"
	"github.com/insightdelivered/statement-splitter/internal/logger"
	"github.com/insightdelivered/statement-splitter/internal/models"
	"github.com/insightdelivered/statement-splitter/internal/parser"
	"github.com/insightdelivered/statement-splitter/internal/writer"
)

type convertOptions struct {
	bank   models.BankType // "" means detect from content
	outDir string
	format string // config.ExportCSV or config.ExportXLSX
	// progress, when set, receives a progress bar over the inputs.
	progress io.Writer
}

type convertResult struct {
	input    string
	bank     string
	period   string
	income   int
	outgoing int
	outputs  []string
}

// periodClaims stops two inputs of the same period from overwriting each
// other's output files.
type periodClaims struct {
	mu    sync.Mutex
	owner map[string]string
}

func (p *periodClaims) claim(period, input string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.owner == nil {
		p.owner = make(map[string]string)
	}
	if prev, ok := p.owner[period]; ok {
		return fmt.Errorf("period %s is already written from %s", period, prev)
	}
	p.owner[period] = input
	return nil
}

// convertFiles converts every input concurrently. Results come back in
// input order; the first failure cancels the rest.
func convertFiles(ctx context.Context, inputs []string, opts convertOptions) ([]convertResult, error) {
	results := make([]convertResult, len(inputs))
	claims := &periodClaims{}
	bar := newProgressBar(opts.progress, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := convertFile(ctx, input, opts, claims)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = *res
			if bar != nil {
				if err := bar.Add(1); err != nil {
					log := logger.FromContext(ctx)
					log.Warn().Err(err).Msg("failed to update progress bar")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Converting statements"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

func convertFile(ctx context.Context, input string, opts convertOptions, claims *periodClaims) (*convertResult, error) {
	log := logger.FromContext(ctx).With().Str("file", input).Logger()

	doc, bank, err := loadInput(input, opts.bank)
	if err != nil {
		return nil, err
	}
	p, err := parser.New(bank)
	if err != nil {
		return nil, err
	}
	if doc.Rows != nil && p.Layout() != models.LayoutTable {
		return nil, fmt.Errorf("%s statements are text, not a table; convert the PDF or a .txt copy instead", p.BankName())
	}

	st, err := p.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	part := models.Split(st.Entries)
	log.Debug().Str("bank", p.BankName()).Str("period", st.Period).Int("rows", part.Len()).Msg("parsed")
	if part.Len() == 0 {
		log.Warn().Msg("no transactions found; check the --bank selector")
	}

	if err := claims.claim(st.Period, input); err != nil {
		return nil, err
	}

	var outputs []string
	switch strings.ToLower(opts.format) {
	case config.ExportXLSX:
		path, err := (&writer.XLSXWriter{}).WriteFile(opts.outDir, st.Period, part)
		if err != nil {
			return nil, err
		}
		outputs = []string{path}
	default:
		outputs, err = (&writer.CSVWriter{}).WriteFiles(opts.outDir, st.Period, part)
		if err != nil {
			return nil, err
		}
	}

	return &convertResult{
		input:    input,
		bank:     p.BankName(),
		period:   st.Period,
		income:   len(part.Income),
		outgoing: len(part.Outgoing),
		outputs:  outputs,
	}, nil
}

// loadInput reads a .pdf, .txt or .csv statement and settles the bank,
// detecting it from the content when none was given.
func loadInput(input string, bank models.BankType) (*models.Document, models.BankType, error) {
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".pdf":
		f, err := os.Open(input)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, "", err
		}

		lines, err := extractor.ExtractLines(f, info.Size())
		if err != nil {
			return nil, "", fmt.Errorf("PDF extraction failed: %w", err)
		}
		if bank, err = resolveBank(bank, strings.Join(lines, "\n")); err != nil {
			return nil, "", err
		}
		p, err := parser.New(bank)
		if err != nil {
			return nil, "", err
		}
		return extractor.DocumentFromLines(p.Layout(), lines), bank, nil

	case ".txt":
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, "", err
		}
		if bank, err = resolveBank(bank, string(data)); err != nil {
			return nil, "", err
		}
		p, err := parser.New(bank)
		if err != nil {
			return nil, "", err
		}
		return extractor.DocumentFromText(p.Layout(), string(data)), bank, nil

	case ".csv":
		f, err := os.Open(input)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, "", fmt.Errorf("reading CSV: %w", err)
		}
		if bank, err = resolveBank(bank, flattenRows(rows)); err != nil {
			return nil, "", err
		}
		if rows == nil {
			rows = [][]string{}
		}
		return &models.Document{Rows: rows}, bank, nil

	default:
		return nil, "", fmt.Errorf("unsupported input %q: expected .pdf, .txt or .csv", ext)
	}
}

func resolveBank(bank models.BankType, text string) (models.BankType, error) {
	if bank != "" {
		return bank, nil
	}
	return parser.AutoDetect(text)
}

func flattenRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
