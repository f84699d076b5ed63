package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoReadableText is returned when a PDF yields no text that looks like a
// bank statement: image-only scans, or fonts whose encoding cannot be mapped.
var ErrNoReadableText = errors.New("no readable text in PDF")

// ExtractLines reads a PDF and returns its text one visual row per line,
// pages in order. Rows come from the library's row grouping first; when
// that output is unreadable the positioned glyphs are regrouped by
// coordinate, and finally the document's plain text is used.
func ExtractLines(r io.ReaderAt, size int64) ([]string, error) {
	pages, err := extractPages(r, size)
	if err != nil {
		return nil, err
	}
	return LinesFromText(strings.Join(pages, "\n")), nil
}

// ExtractRows reads a PDF laid out as a date | details | amount table and
// returns one 3-cell row per transaction. See RowsFromLines.
func ExtractRows(r io.ReaderAt, size int64) ([][]string, error) {
	lines, err := ExtractLines(r, size)
	if err != nil {
		return nil, err
	}
	return RowsFromLines(lines), nil
}

func extractPages(r io.ReaderAt, size int64) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := doc.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages: %w", ErrNoReadableText)
	}

	for _, method := range []func(*pdf.Reader, int) []string{extractByRow, extractByContent} {
		pages = method(doc, numPages)
		if IsReadableText(pages) {
			return pages, nil
		}
	}
	if plain := extractByReaderPlainText(doc); IsReadableText([]string{plain}) {
		return []string{plain}, nil
	}
	return nil, ErrNoReadableText
}

// extractByRow joins the words of each library-grouped row with spaces.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups glyphs by rounded Y (top of page first) and
// orders each group by X. Wide horizontal gaps become a column separator.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type glyph struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := page.Content().Text
		if len(text) == 0 {
			continue
		}

		byY := make(map[int][]glyph)
		for _, t := range text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			byY[y] = append(byY[y], glyph{x: t.X, s: t.S})
		}
		ys := make([]int, 0, len(byY))
		for y := range byY {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		lines := make([]string, 0, len(ys))
		for _, y := range ys {
			glyphs := byY[y]
			sort.Slice(glyphs, func(a, b int) bool { return glyphs[a].x < glyphs[b].x })

			var b strings.Builder
			for j, g := range glyphs {
				if j > 0 && g.x-glyphs[j-1].x > columnGap {
					b.WriteString("  ")
				}
				b.WriteString(g.s)
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

const columnGap = 15

func extractByReaderPlainText(r *pdf.Reader) string {
	rd, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// statementWords appear in virtually every bank statement; text with none
// of them is almost certainly mis-decoded.
var statementWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "sort code",
	"money", "paid", "opening", "closing", "transfer", "direct",
	"number", "page", "period", "purchase",
}

const (
	minReadableLen   = 50
	minReadableRatio = 0.6
)

// IsReadableText reports whether pages hold more than a trivial amount of
// mostly-ASCII text containing at least one statement word.
func IsReadableText(pages []string) bool {
	total, readable, length := 0, 0, 0
	for _, p := range pages {
		length += len(strings.TrimSpace(p))
		for _, r := range p {
			total++
			if isReadableRune(r) {
				readable++
			}
		}
	}
	if length <= minReadableLen || float64(readable)/float64(total) <= minReadableRatio {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, " "))
	for _, w := range statementWords {
		if strings.Contains(combined, w) {
			return true
		}
	}
	return false
}

// isReadableRune accepts ASCII letters, digits, whitespace and the
// punctuation seen on statements. Accented letters are rejected: they are
// what identity-encoded fonts tend to decode into.
func isReadableRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '\t', r == '\n', r == '\r':
		return true
	}
	return strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r)
}
