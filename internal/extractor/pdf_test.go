package extractor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadableText(t *testing.T) {
	statement := "HSBC UK Bank plc\nYour Statement\n01 Jan 23 CR SALARY EMPLOYER LTD 5,000.00"

	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"statement text", []string{statement}, true},
		{"too short", []string{"Balance 10.00"}, false},
		{"no pages", nil, false},
		{"mis-decoded glyphs", []string{strings.Repeat("ÃÂ¤Ã©Ã¨ ", 20) + "balance"}, false},
		{"readable but not a statement", []string{strings.Repeat("lorem ipsum dolor sit amet ", 4)}, false},
		{"words split over pages", []string{strings.Repeat("x", 40), strings.Repeat("y", 20) + " Sort Code"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadableText(tt.pages))
		})
	}
}

func TestExtractLines_NotAPDF(t *testing.T) {
	data := []byte("this is plainly not a PDF document")
	_, err := ExtractLines(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)

	_, err = ExtractRows(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
