package datekey

import (
	"time"

	"habitflow/internal/model"
)

// Clock provides the current local calendar date.
type Clock interface {
	Today() time.Time
}

type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return Midnight(time.Now())
}

// FixedClock always reports the same day.
type FixedClock struct {
	Day time.Time
}

func (c FixedClock) Today() time.Time {
	return Midnight(c.Day)
}

// FixedClockAt builds a FixedClock from a key. It panics on an invalid key and
// is meant for tests and tooling.
func FixedClockAt(key string) FixedClock {
	t, ok := Parse(key)
	if !ok {
		panic("datekey: invalid fixed clock key " + key)
	}
	return FixedClock{Day: t}
}

func TodayKey(c Clock) string {
	return Format(c.Today())
}

// DefaultRange covers the last days days ending today. days < 1 is treated as 1.
func DefaultRange(c Clock, days int) model.DateRange {
	if days < 1 {
		days = 1
	}
	today := c.Today()
	return model.DateRange{
		Start: Format(today.AddDate(0, 0, -(days - 1))),
		End:   Format(today),
	}
}
