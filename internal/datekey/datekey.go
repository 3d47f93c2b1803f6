// Package datekey converts between calendar dates and canonical YYYY-MM-DD
// keys and walks inclusive key ranges one local calendar day at a time.
package datekey

import (
	"iter"
	"time"

	"habitflow/internal/model"
)

const Layout = "2006-01-02"

// IsValid reports whether s has the fixed-width NNNN-NN-NN shape.
// It is a syntactic check only.
func IsValid(s string) bool {
	if len(s) != len(Layout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Parse returns local midnight of the day named by key. The second result is
// false when key is not syntactically valid or does not name a real date.
func Parse(key string) (time.Time, bool) {
	if !IsValid(key) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Format returns the key of the calendar day t falls on in t's location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts key by n calendar days. It returns "" for an unparseable key.
func AddDays(key string, n int) string {
	t, ok := Parse(key)
	if !ok {
		return ""
	}
	return Format(t.AddDate(0, 0, n))
}

// Valid reports whether both bounds parse and end is not before start.
func Valid(r model.DateRange) bool {
	start, ok := Parse(r.Start)
	if !ok {
		return false
	}
	end, ok := Parse(r.End)
	if !ok {
		return false
	}
	return !end.Before(start)
}

// InRange yields the keys from r.Start to r.End inclusive in ascending order.
// The sequence is empty for an invalid range.
func InRange(r model.DateRange) iter.Seq[string] {
	return func(yield func(string) bool) {
		start, ok := Parse(r.Start)
		if !ok {
			return
		}
		end, ok := Parse(r.End)
		if !ok {
			return
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !yield(Format(d)) {
				return
			}
		}
	}
}

// Keys materialises InRange.
func Keys(r model.DateRange) []string {
	keys := []string{}
	for k := range InRange(r) {
		keys = append(keys, k)
	}
	return keys
}

// WeekdayLabel renders key as "Friday, February 20, 2026", or returns key
// unchanged when it does not parse.
func WeekdayLabel(key string) string {
	t, ok := Parse(key)
	if !ok {
		return key
	}
	return t.Format("Monday, January 2, 2006")
}
