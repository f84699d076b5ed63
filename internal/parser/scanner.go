package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-splitter/internal/models"
)

// unit is one scan position: a text line or a table row.
type unit struct {
	num       int    // 1-based position in the extracted input
	raw       string // trimmed source text, for lookahead and debugging
	dateToken string // leading date, "" when the unit carries none
	body      string // text the classification rules look at
	amount    string // amount cell; tabular units only
	skip      bool   // page furniture such as carried-forward balances
}

// Rule maps a classified body to a transaction kind.
type Rule struct {
	Kind  models.Kind
	Match func(body string) bool
}

func prefixRule(kind models.Kind, prefix string) Rule {
	return Rule{Kind: kind, Match: func(body string) bool {
		return strings.HasPrefix(body, prefix)
	}}
}

func keywordRule(kind models.Kind, keyword string) Rule {
	return Rule{Kind: kind, Match: func(body string) bool {
		return strings.Contains(body, keyword)
	}}
}

// Format is a bank statement layout: how to cut extracted content into
// units, how dates look, and which ordered rules pick a transaction kind.
// A Format holds no scan state; every Parse call starts from scratch.
type Format struct {
	Bank        models.BankType
	Name        string
	layout      models.Layout
	dateLayout  string
	inheritDate bool // undated units book against the last date seen
	keepNoMatch bool // unmatched units leave a NoMatch entry behind
	rules       []Rule
	units       func(doc *models.Document) ([]unit, error)
}

func (f *Format) BankName() string {
	return f.Name
}

func (f *Format) Layout() models.Layout {
	return f.layout
}

// classify returns the kind of the first matching rule, or KindNone.
func (f *Format) classify(body string) models.Kind {
	for _, r := range f.rules {
		if r.Match(body) {
			return r.Kind
		}
	}
	return models.KindNone
}

// Parse walks the document once, left to right, keeping the current date
// and looking at most one unit ahead.
func (f *Format) Parse(doc *models.Document) (*models.Statement, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrMalformedEntry)
	}
	units, err := f.units(doc)
	if err != nil {
		return nil, err
	}

	dates := NewDateContext(f.dateLayout)
	st := &models.Statement{Bank: f.Bank}

	for i := 0; i < len(units); {
		u := units[i]
		dl := models.DebugLine{
			LineNum: u.num,
			Text:    truncate(u.raw),
			HasDate: u.dateToken != "",
		}

		if u.skip {
			dl.Result = "skipped"
			st.DebugLines = append(st.DebugLines, dl)
			i++
			continue
		}

		dated := u.dateToken != "" && dates.TryUpdate(u.dateToken)
		if !dated {
			if !f.inheritDate {
				dl.Result = "skipped"
				st.DebugLines = append(st.DebugLines, dl)
				i++
				continue
			}
			if u.dateToken != "" {
				// Unreadable date: classify the whole line instead.
				u.body = u.raw
			}
		}

		day, ok := dates.CurrentDay()
		if !ok {
			dl.Result = "skipped"
			st.DebugLines = append(st.DebugLines, dl)
			i++
			continue
		}

		var next *unit
		if i+1 < len(units) {
			next = &units[i+1]
		}

		kind := f.classify(u.body)
		entry, consumed, err := f.assemble(kind, day, u, next)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", u.num, u.raw, err)
		}

		if _, ok := entry.Transaction(); ok {
			dl.Result = "parsed"
			dl.Method = kind.Label()
			st.Entries = append(st.Entries, entry)
		} else if f.keepNoMatch {
			dl.Result = "unmatched"
			st.Entries = append(st.Entries, entry)
		} else {
			dl.Result = "skipped"
		}
		if dated && dl.Result == "unmatched" {
			dl.Result = "header"
		}
		st.DebugLines = append(st.DebugLines, dl)

		for j := 1; j < consumed && i+j < len(units); j++ {
			c := units[i+j]
			st.DebugLines = append(st.DebugLines, models.DebugLine{
				LineNum: c.num,
				Text:    truncate(c.raw),
				Result:  "continuation",
			})
		}
		i += consumed
	}

	st.Period = dates.Period()
	return st, nil
}

// truncate shortens long lines for debug display.
func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " / ")
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
