package tripdates

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var layouts = []string{
	Layout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"02/01/2006", // dd/mm/yyyy as typed in pt-BR forms
}

// Parse reads a calendar date and returns it as midnight UTC. Time-of-day and
// offsets in richer layouts are discarded; only the written date counts.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t), nil
		}
	}
	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse date string",
	}
}

// Date truncates t to its calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// DaysBetween is the absolute number of calendar days separating a and b.
func DaysBetween(a, b time.Time) int {
	d := int((Date(b).Unix() - Date(a).Unix()) / secondsPerDay)
	if d < 0 {
		return -d
	}
	return d
}

func Max(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Today is the current calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Date(now.In(loc))
}
