package extractor

import (
	"io"
	"strings"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

// PageBreak separates pages in text extracted on the client side.
const PageBreak = "---PAGE_BREAK---"

// ExtractDocument reads a PDF into the shape a parser with the given
// layout consumes.
func ExtractDocument(layout models.Layout, r io.ReaderAt, size int64) (*models.Document, error) {
	if layout == models.LayoutTable {
		rows, err := ExtractRows(r, size)
		if err != nil {
			return nil, err
		}
		return &models.Document{Rows: rows}, nil
	}
	lines, err := ExtractLines(r, size)
	if err != nil {
		return nil, err
	}
	return &models.Document{Lines: lines}, nil
}

// DocumentFromLines shapes lines that were already extracted, typically to
// detect the bank before the layout was known.
func DocumentFromLines(layout models.Layout, lines []string) *models.Document {
	if layout == models.LayoutTable {
		return &models.Document{Rows: RowsFromLines(lines)}
	}
	return &models.Document{Lines: lines}
}

// DocumentFromText shapes pasted or pre-extracted text. Page break markers
// are treated as line breaks.
func DocumentFromText(layout models.Layout, text string) *models.Document {
	text = strings.ReplaceAll(text, PageBreak, "\n")
	if layout == models.LayoutTable {
		return &models.Document{Rows: RowsFromText(text)}
	}
	return &models.Document{Lines: LinesFromText(text)}
}
