// Package dates centralizes the due-date input rules shared by the task
// entity and the command-line validators.
package dates

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DisplayLayout is the timestamp layout used in rendered output.
const DisplayLayout = "2006-01-02 15:04"

// Fixed layouts tried after the flexible parse, in order.
var layouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

// Parse resolves free-form date text. Keywords resolve relative to now
// truncated to local midnight; anything else goes through a flexible
// parse and then the fixed layouts. The boolean reports whether the
// text produced a usable time; unparseable input is absence, not an
// error.
func Parse(text string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, false
	}

	switch s {
	case "today":
		return Midnight(now), true
	case "tomorrow":
		return Midnight(now).AddDate(0, 0, 1), true
	case "next_week":
		return Midnight(now).AddDate(0, 0, 7), true
	case "next_month":
		return Midnight(now).AddDate(0, 0, 30), true
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the whole calendar days from a to b, negative
// when b precedes a. Rounding keeps the count stable across DST
// transitions.
func DaysBetween(a, b time.Time) int {
	d := Midnight(b).Sub(Midnight(a))
	return int(math.Round(d.Hours() / 24))
}
