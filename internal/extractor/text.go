package extractor

import (
	"regexp"
	"strings"
)

// LinesFromText splits already-extracted text, such as a copy-paste of a
// statement, into trimmed lines. Blank lines are kept; the parser decides
// what to ignore.
func LinesFromText(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSpace(l))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// RowsFromText turns pasted table text into rows. Tab-separated text (what
// a browser copy of an HTML or PDF table produces) is split on tabs, one
// row per line. Anything else is assembled with RowsFromLines.
func RowsFromText(text string) [][]string {
	if !strings.Contains(text, "\t") {
		return RowsFromLines(LinesFromText(text))
	}

	// Split by hand: trimming whole lines would eat empty leading cells.
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		cells := strings.Split(l, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

var (
	rowDatePattern = regexp.MustCompile(`^(\d{1,2} [A-Za-z]{3} \d{4})(?:\s+(.*))?$`)
	amountPattern  = regexp.MustCompile(`^[+-]?[£$€]?[+-]?\d[\d,]*(\.\d+)?$`)
)

// RowsFromLines rebuilds date | details | amount rows from text lines.
//
// A row opens on a line starting with a "DD Mon YYYY" date. The line's last
// token is the amount when it looks like one; the words between are the
// first line of details. Undated lines that follow add further lines of
// details. Lines before the first date (headers, addresses) are dropped.
func RowsFromLines(lines []string) [][]string {
	var (
		rows    [][]string
		details []string
		open    bool
		date    string
		amount  string
	)
	flush := func() {
		if open {
			rows = append(rows, []string{date, strings.Join(details, "\n"), amount})
		}
	}

	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		m := rowDatePattern.FindStringSubmatch(l)
		if m == nil {
			if open {
				details = append(details, l)
			}
			continue
		}

		flush()
		open, date, amount, details = true, m[1], "", nil
		fields := strings.Fields(m[2])
		if n := len(fields); n > 0 && amountPattern.MatchString(fields[n-1]) {
			amount = fields[n-1]
			fields = fields[:n-1]
		}
		details = append(details, strings.Join(fields, " "))
	}
	flush()
	return rows
}
