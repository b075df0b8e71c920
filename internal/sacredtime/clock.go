package sacredtime

import "time"

// Clock abstracts time.Now so polls can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// ReadingAt converts t into the hour and minute observed in loc.
func ReadingAt(t time.Time, loc *time.Location) Reading {
	local := t.In(loc)
	return Reading{Hour: local.Hour(), Minute: local.Minute()}
}

// Read takes a fresh reading from clock in loc.
func Read(clock Clock, loc *time.Location) Reading {
	return ReadingAt(clock.Now(), loc)
}

// At returns the instant a mark occurs dayOffset days after the calendar day
// of now, in now's location. Across a DST change the result follows
// time.Date normalisation.
func At(now time.Time, m Mark, dayOffset int) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d+dayOffset, m.Hour, m.Minute, 0, 0, now.Location())
}
