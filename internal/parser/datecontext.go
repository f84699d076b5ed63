package parser

import (
	"strings"
	"time"
)

// Date layouts used by statement headers: day, abbreviated month, year.
const (
	layoutShortYear = "2 Jan 06"
	layoutLongYear  = "2 Jan 2006"
)

// DateContext holds the most recent statement date seen during one scan.
// Lines without a date of their own are booked against it.
type DateContext struct {
	layout  string
	current time.Time
	first   time.Time
	set     bool
}

// NewDateContext returns an empty context that parses dates with layout.
func NewDateContext(layout string) *DateContext {
	return &DateContext{layout: layout}
}

// TryUpdate parses token and, on success, makes it the current date.
// On failure the held date is left untouched.
func (c *DateContext) TryUpdate(token string) bool {
	// time.Parse wants single spaces between the fields.
	token = strings.Join(strings.Fields(token), " ")
	t, err := time.Parse(c.layout, token)
	if err != nil {
		return false
	}
	if !c.set {
		c.first = t
	}
	c.current = t
	c.set = true
	return true
}

// CurrentDay returns the day of the held date, or false before any date.
func (c *DateContext) CurrentDay() (int, bool) {
	if !c.set {
		return 0, false
	}
	return c.current.Day(), true
}

// Period returns the label used to name export files, e.g. "JAN23".
// It comes from the first date of the statement.
func (c *DateContext) Period() string {
	if !c.set {
		return "STATEMENT"
	}
	return strings.ToUpper(c.first.Format("Jan06"))
}
