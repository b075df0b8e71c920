// Package sacredtime decides when Sappie posts. A day carries a fixed set of
// sacred (angelic) minutes in one civil timezone; the functions here find the
// next of them and report whether the current minute is one.
//
// Every function is pure. A mark list is never mutated and may be unsorted or
// contain duplicates.
package sacredtime

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidConfiguration is returned by Validate for an empty mark list.
// Passing an empty list to NextMark, NextMarks or IsTrigger is a programming
// error and panics with this error.
var ErrInvalidConfiguration = errors.New("sacred time configuration requires at least one mark")

// Mark is a trigger point within a day.
type Mark struct {
	Hour   int
	Minute int
}

// Offset returns the number of minutes past midnight.
func (m Mark) Offset() int { return m.Hour*60 + m.Minute }

// String formats the mark as HH:MM.
func (m Mark) String() string { return fmt.Sprintf("%02d:%02d", m.Hour, m.Minute) }

// Valid reports whether the mark names a real minute of the day.
func (m Mark) Valid() bool {
	return m.Hour >= 0 && m.Hour < 24 && m.Minute >= 0 && m.Minute < 60
}

// Reading is the wall-clock minute in the scheduling timezone. Seconds are
// dropped.
type Reading struct {
	Hour   int
	Minute int
}

// Offset returns the number of minutes past midnight.
func (r Reading) Offset() int { return r.Hour*60 + r.Minute }

// String formats the reading as HH:MM.
func (r Reading) String() string { return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute) }

// DefaultMarks are the eighteen angelic times, UK time.
var DefaultMarks = []Mark{
	{0, 9}, {1, 11}, {2, 22}, {3, 33}, {4, 44}, {5, 55},
	{6, 39}, // Tesla's 369
	{11, 11}, {12, 22}, {13, 33}, {14, 44}, {15, 55},
	{16, 11}, {17, 22}, {18, 33}, {19, 44}, {20, 55},
	{22, 10},
}

// NextMark returns the first mark strictly after current and its day offset:
// 0 when it falls later today, 1 when every mark has already passed and the
// earliest mark of tomorrow is returned.
func NextMark(marks []Mark, current Reading) (Mark, int) {
	mustHaveMarks("NextMark", marks)

	now := current.Offset()
	var (
		next, first     Mark
		hasNext, seeded bool
	)
	for _, m := range marks {
		if !seeded || m.Offset() < first.Offset() {
			first, seeded = m, true
		}
		if m.Offset() > now && (!hasNext || m.Offset() < next.Offset()) {
			next, hasNext = m, true
		}
	}
	if hasNext {
		return next, 0
	}
	return first, 1
}

// NextMarks yields the next n marks after current in chronological order,
// paired with their day offsets. The offset grows by one every time the day's
// marks run out. The sequence is computed on demand and may be ranged over
// any number of times.
func NextMarks(marks []Mark, current Reading, n int) iter.Seq2[Mark, int] {
	mustHaveMarks("NextMarks", marks)

	sorted := slices.Clone(marks)
	slices.SortStableFunc(sorted, func(a, b Mark) int { return cmp.Compare(a.Offset(), b.Offset()) })
	start, _ := slices.BinarySearchFunc(sorted, current.Offset()+1, func(m Mark, target int) int {
		return cmp.Compare(m.Offset(), target)
	})

	return func(yield func(Mark, int) bool) {
		i, day := start, 0
		for emitted := 0; emitted < n; emitted++ {
			if i == len(sorted) {
				i, day = 0, day+1
			}
			if !yield(sorted[i], day) {
				return
			}
			i++
		}
	}
}

// IsTrigger reports whether current is exactly one of the marks.
//
// A poll that runs late and skips the mark's minute will not see the trigger;
// there is no catch-up.
func IsTrigger(marks []Mark, current Reading) bool {
	mustHaveMarks("IsTrigger", marks)
	return slices.ContainsFunc(marks, func(m Mark) bool {
		return m.Hour == current.Hour && m.Minute == current.Minute
	})
}

// Validate checks a configured mark list. It is meant to run once at startup.
func Validate(marks []Mark) error {
	if len(marks) == 0 {
		return ErrInvalidConfiguration
	}
	for i, m := range marks {
		if !m.Valid() {
			return fmt.Errorf("mark %d (%d:%d) out of range: %w", i, m.Hour, m.Minute, ErrInvalidConfiguration)
		}
	}
	return nil
}

// ParseMark parses "H:MM" or "HH:MM".
func ParseMark(s string) (Mark, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Mark{}, fmt.Errorf("invalid sacred time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return Mark{}, fmt.Errorf("invalid sacred time %q: hour: %w", s, err)
	}
	if len(mm) != 2 {
		return Mark{}, fmt.Errorf("invalid sacred time %q: minute must have two digits", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return Mark{}, fmt.Errorf("invalid sacred time %q: minute: %w", s, err)
	}
	mark := Mark{Hour: h, Minute: m}
	if !mark.Valid() {
		return Mark{}, fmt.Errorf("invalid sacred time %q: out of range", s)
	}
	return mark, nil
}

// ParseMarks parses a list of HH:MM strings and validates the result.
func ParseMarks(values []string) ([]Mark, error) {
	marks := make([]Mark, 0, len(values))
	for _, v := range values {
		m, err := ParseMark(v)
		if err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	if err := Validate(marks); err != nil {
		return nil, err
	}
	return marks, nil
}

// DayLabel describes a day offset for people.
func DayLabel(dayOffset int) string {
	switch dayOffset {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", dayOffset)
	}
}

func mustHaveMarks(op string, marks []Mark) {
	if len(marks) == 0 {
		panic(fmt.Errorf("sacredtime.%s: %w", op, ErrInvalidConfiguration))
	}
}
